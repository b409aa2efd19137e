package ports

import (
	"context"

	"github.com/uxforge/maestro/pkg/domain"
)

// SessionStore defines the interface for persisting sessions.
// Implementations must not alias stored sessions: Save takes a snapshot and
// Load returns a copy the caller may mutate freely.
type SessionStore interface {
	// Save persists the session under its id.
	Save(ctx context.Context, session *domain.Session) error

	// Load retrieves a session by id.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Session, error)

	// Delete removes the session. Deleting an absent session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// List returns the ids of all stored sessions.
	List(ctx context.Context) ([]string, error)
}
