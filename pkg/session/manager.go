package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/oauthkit/pkg/cookie"
	"github.com/dmitrymomot/oauthkit/pkg/logger"
)

// Manager handles session operations
type Manager struct {
	store         Store
	transport     Transport
	config        Config
	cookieManager *cookie.Manager
	cookieOptions []cookie.Option
	logger        *slog.Logger
}

// New creates a session manager. Without WithTransport a cookie manager is required.
func New(opts ...Option) (*Manager, error) {
	m := &Manager{
		config: DefaultConfig(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.config.TTL <= 0 {
		m.config.TTL = DefaultConfig().TTL
	}
	if m.config.CookieName == "" {
		m.config.CookieName = DefaultConfig().CookieName
	}
	if m.store == nil {
		m.store = NewMemoryStore(m.config.CleanupInterval)
	}
	if m.transport == nil {
		if m.cookieManager == nil {
			return nil, ErrNoCookieManager
		}
		m.transport = NewCookieTransport(m.cookieManager, m.config.CookieName, m.config.SecureCookies, m.cookieOptions...)
	}

	return m, nil
}

// NewFromConfig creates a Manager from cfg. Options are applied after the config.
func NewFromConfig(cfg Config, opts ...Option) (*Manager, error) {
	return New(append([]Option{WithConfig(cfg)}, opts...)...)
}

// Config returns the effective configuration.
func (m *Manager) Config() Config { return m.config }

// Ensure returns the request's session, creating one when there is none.
func (m *Manager) Ensure(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Session, error) {
	session, _, err := m.ensure(ctx, w, r)
	return session, err
}

// ensure also reports whether the session was created by this call.
func (m *Manager) ensure(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Session, bool, error) {
	if session, err := m.Get(ctx, r); err == nil {
		return session, false, nil
	}

	token, err := generateToken()
	if err != nil {
		return nil, false, err
	}
	session := NewSession(token, m.config.TTL)
	if err := m.store.Create(ctx, session); err != nil {
		return nil, false, fmt.Errorf("create session: %w", err)
	}
	if err := m.transport.SetToken(w, session.Token, m.config.TTL); err != nil {
		_ = m.store.Delete(ctx, session.Token)
		return nil, false, err
	}

	if s := slotFromContext(ctx); s != nil {
		s.session = session
		s.issued = true
	}
	return session, true, nil
}

// Get returns the session attached to the request.
func (m *Manager) Get(ctx context.Context, r *http.Request) (*Session, error) {
	if session, ok := FromContext(ctx); ok && !session.IsExpired() {
		return session, nil
	}

	token, err := m.transport.GetToken(r)
	if err != nil {
		return nil, err
	}
	session, err := m.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if session.IsExpired() {
		return nil, ErrSessionExpired
	}
	return session, nil
}

// Set stores value under key, creating the session if needed. Every write
// restarts the session lifetime, so a value always gets a full TTL.
func (m *Manager) Set(ctx context.Context, w http.ResponseWriter, r *http.Request, key string, value any) error {
	session, created, err := m.ensure(ctx, w, r)
	if err != nil {
		return err
	}
	session.Set(key, value)

	if !created {
		session.ExpiresAt = time.Now().Add(m.config.TTL)
		if err := m.reissue(ctx, w, session); err != nil {
			return err
		}
	}
	return m.store.Update(ctx, session)
}

// reissue writes the session cookie with a full TTL, once per request.
func (m *Manager) reissue(ctx context.Context, w http.ResponseWriter, session *Session) error {
	s := slotFromContext(ctx)
	if s != nil && s.issued {
		return nil
	}
	if err := m.transport.SetToken(w, session.Token, m.config.TTL); err != nil {
		return err
	}
	if s != nil {
		s.issued = true
	}
	return nil
}

// Value returns the value stored under key.
func (m *Manager) Value(ctx context.Context, r *http.Request, key string) (any, error) {
	session, err := m.Get(ctx, r)
	if err != nil {
		return nil, err
	}
	v, ok := session.Get(key)
	if !ok {
		return nil, ErrKeyNotFound
	}
	return v, nil
}

// Pop removes and returns the value stored under key.
func (m *Manager) Pop(ctx context.Context, r *http.Request, key string) (any, error) {
	session, err := m.Get(ctx, r)
	if err != nil {
		return nil, err
	}
	v, ok := session.Pop(key)
	if !ok {
		return nil, ErrKeyNotFound
	}
	if err := m.store.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	return v, nil
}

// Destroy deletes the session and clears the client token.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if token, err := m.transport.GetToken(r); err == nil && token != "" {
		if err := m.store.Delete(ctx, token); err != nil {
			return err
		}
	}
	if s := slotFromContext(ctx); s != nil {
		s.session = nil
	}
	return m.transport.ClearToken(w)
}

// Middleware loads the request's session, if any, into the context. Sessions
// created later in the request become visible through the same context.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := m.Get(r.Context(), r)
		if err != nil && !errors.Is(err, ErrSessionNotFound) && !errors.Is(err, ErrSessionExpired) {
			m.logger.WarnContext(r.Context(), "session lookup failed",
				logger.Component("session"),
				logger.Error(err),
			)
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}

// Close releases store resources when the store supports it.
func (m *Manager) Close() error {
	if c, ok := m.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// generateToken creates a cryptographically secure token
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
