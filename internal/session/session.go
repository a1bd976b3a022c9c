// Package session stores transient per-request matching state keyed by an
// opaque session identifier.
package session

import (
	"context"
	"errors"

	"github.com/sells-group/matching-cli/internal/model"
)

// ErrNotFound indicates an unknown or expired session identifier.
var ErrNotFound = errors.New("session: not found")

// Store is the session persistence interface. Backends must serialize
// concurrent access to the same identifier.
type Store interface {
	Put(ctx context.Context, id string, state *model.SessionState) error
	// Update overwrites an existing session and returns ErrNotFound when the
	// id is absent or expired. Unlike Put it never re-creates a session, so
	// a concurrent cleanup cannot be undone by an in-flight request.
	Update(ctx context.Context, id string, state *model.SessionState) error
	Get(ctx context.Context, id string) (*model.SessionState, error)
	Delete(ctx context.Context, id string) error
	Close() error
}
