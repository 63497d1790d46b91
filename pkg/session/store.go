package session

import "context"

// Store defines the interface for session persistence.
// Implementations must expire sessions on their own once ExpiresAt passes.
type Store interface {
	// Create stores a new session
	Create(ctx context.Context, session *Session) error

	// Get retrieves a session by token
	Get(ctx context.Context, token string) (*Session, error)

	// Update replaces the data of an existing session without extending its lifetime
	Update(ctx context.Context, session *Session) error

	// Delete removes a session by token
	Delete(ctx context.Context, token string) error
}
