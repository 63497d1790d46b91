package session

import "context"

type sessionContextKey struct{}

// slot lets Ensure publish a session created mid-request to later calls
// sharing the same context.
type slot struct {
	session *Session
	issued  bool // the session cookie was already written in this request
}

// WithSession adds a session to the context
func WithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, &slot{session: session})
}

// FromContext retrieves a session from the context
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionContextKey{}).(*slot)
	if !ok || s.session == nil {
		return nil, false
	}
	return s.session, true
}

func slotFromContext(ctx context.Context) *slot {
	s, _ := ctx.Value(sessionContextKey{}).(*slot)
	return s
}
