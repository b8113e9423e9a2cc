// Package session handles Filae session persistence.
// The bearer token and user identity are stored in ~/.config/filae/session.toml.
package session

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	toml "github.com/pelletier/go-toml/v2"
)

// User types as reported by the login endpoint.
const (
	UserTypeCustomer = "CUSTOMER"
	UserTypeMerchant = "MERCHANT"
)

// Session holds the signed-in user's identity and bearer token.
type Session struct {
	Token    string `toml:"token"`
	UserID   int64  `toml:"user_id"`
	Name     string `toml:"name"`
	Email    string `toml:"email"`
	UserType string `toml:"user_type"`
}

const defaultSessionPath = "~/.config/filae/session.toml"

// DefaultPath returns the default session file path.
func DefaultPath() string {
	return defaultSessionPath
}

// SignedIn reports whether a token is present.
func (s Session) SignedIn() bool {
	return strings.TrimSpace(s.Token) != ""
}

// Merchant reports whether the session belongs to a merchant account.
func (s Session) Merchant() bool {
	return s.UserType == UserTypeMerchant
}

// TokenExpiry reads the exp claim from the stored JWT without verifying
// the signature. Verification is the server's job; this only exists so the
// client can prompt for a fresh login instead of issuing doomed requests.
// A token without a readable expiry returns the zero time.
func (s Session) TokenExpiry() time.Time {
	if !s.SignedIn() {
		return time.Time{}
	}
	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(s.Token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

// Expired reports whether the stored token has a readable expiry in the
// past. An unreadable expiry counts as not expired; the server decides.
func (s Session) Expired() bool {
	exp := s.TokenExpiry()
	return !exp.IsZero() && exp.Before(time.Now())
}

// Load reads the session from the given path. A missing file yields an
// empty (signed-out) session, not an error.
func Load(path string) (Session, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Session{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Session{}, nil
		}
		return Session{}, fmt.Errorf("open session: %w", err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return Session{}, fmt.Errorf("read session: %w", err)
	}

	var sess Session
	if err := toml.Unmarshal(data, &sess); err != nil {
		return Session{}, fmt.Errorf("parse session: %w", err)
	}
	return sess, nil
}

// Save writes the session to the given path, creating directories as
// needed. The file is written 0600: it carries the bearer token.
func Save(path string, s Session) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := os.WriteFile(resolved, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Clear removes the session file. Clearing an absent session is not an
// error.
func Clear(path string) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if err := os.Remove(resolved); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultSessionPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
