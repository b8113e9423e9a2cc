package filae

import (
	"errors"
	"fmt"
)

// APIError is a structured rejection from the Filae backend: a non-2xx
// response whose body decodes to the standard {message, status, timestamp}
// envelope.
type APIError struct {
	Message   string `json:"message"`
	Status    int    `json:"status"`
	Timestamp string `json:"timestamp"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.Status)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// Unauthorized reports whether the server rejected the session token.
func (e *APIError) Unauthorized() bool {
	return e.Status == 401
}

// ValidationError is a client-side input rejection raised before any
// network call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ErrAlreadyQueued is returned by the join coordinator when the cache
// already holds a WAITING ticket for the target establishment. No network
// call was made; the existing ticket is attached via AlreadyQueuedError.
var ErrAlreadyQueued = errors.New("already queued at this establishment")

// AlreadyQueuedError wraps ErrAlreadyQueued with the existing ticket.
type AlreadyQueuedError struct {
	Ticket Ticket
}

func (e *AlreadyQueuedError) Error() string { return ErrAlreadyQueued.Error() }

func (e *AlreadyQueuedError) Unwrap() error { return ErrAlreadyQueued }

// ValidatePartySize enforces the subsystem-wide party size bounds.
func ValidatePartySize(partySize int) error {
	if partySize < MinPartySize || partySize > MaxPartySize {
		return &ValidationError{
			Field:  "partySize",
			Reason: fmt.Sprintf("must be between %d and %d", MinPartySize, MaxPartySize),
		}
	}
	return nil
}

// ValidateNotes enforces the subsystem-wide notes length limit.
func ValidateNotes(notes string) error {
	if len([]rune(notes)) > MaxNotesLen {
		return &ValidationError{
			Field:  "notes",
			Reason: fmt.Sprintf("must be at most %d characters", MaxNotesLen),
		}
	}
	return nil
}

// Input bounds mirrored from the backend contract.
const (
	MinPartySize = 1
	MaxPartySize = 20
	MaxNotesLen  = 200
)
