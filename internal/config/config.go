package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the client-side settings for the Filae app.
type Config struct {
	BaseURL        string
	RequestTimeout time.Duration
	PollInterval   time.Duration
	TicketInterval time.Duration
	Theme          string
}

const (
	defaultConfigPath = "~/.config/filae/config.toml"
	defaultBaseURL    = "http://localhost:8080"
	defaultTheme      = "Dracula"

	defaultRequestTimeout = 30 * time.Second
	// My-queues and roster views refresh every 10s; a watched WAITING
	// ticket refreshes every 5s.
	defaultPollInterval   = 10 * time.Second
	defaultTicketInterval = 5 * time.Second
)

// rawConfig is the on-disk TOML shape.
type rawConfig struct {
	BaseURL               string `toml:"base_url"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
	PollSeconds           int    `toml:"poll_seconds"`
	TicketPollSeconds     int    `toml:"ticket_poll_seconds"`
	Theme                 string `toml:"theme"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BaseURL:        defaultBaseURL,
		RequestTimeout: defaultRequestTimeout,
		PollInterval:   defaultPollInterval,
		TicketInterval: defaultTicketInterval,
		Theme:          defaultTheme,
	}
}

// DefaultPath returns the default configuration file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Load locates and parses the config, falling back to defaults when the
// file is missing or a field is unset.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if base := strings.TrimSpace(raw.BaseURL); base != "" {
		cfg.BaseURL = base
	}
	if raw.RequestTimeoutSeconds > 0 {
		cfg.RequestTimeout = time.Duration(raw.RequestTimeoutSeconds) * time.Second
	}
	if raw.PollSeconds > 0 {
		cfg.PollInterval = time.Duration(raw.PollSeconds) * time.Second
	}
	if raw.TicketPollSeconds > 0 {
		cfg.TicketInterval = time.Duration(raw.TicketPollSeconds) * time.Second
	}
	if theme := strings.TrimSpace(raw.Theme); theme != "" {
		cfg.Theme = theme
	}

	return cfg, nil
}

// Save writes the config to the given path, creating directories as
// needed. Used when the UI persists a theme change.
func Save(path string, cfg Config) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	raw := rawConfig{
		BaseURL:               cfg.BaseURL,
		RequestTimeoutSeconds: int(cfg.RequestTimeout / time.Second),
		PollSeconds:           int(cfg.PollInterval / time.Second),
		TicketPollSeconds:     int(cfg.TicketInterval / time.Second),
		Theme:                 cfg.Theme,
	}
	data, err := toml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(resolved, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
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
