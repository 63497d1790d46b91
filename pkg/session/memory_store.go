package session

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore implements Store on top of go-cache. Expired entries are
// evicted by the cache janitor.
type MemoryStore struct {
	items *gocache.Cache
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an in-memory store. A non-positive cleanupInterval
// disables the janitor; expired sessions are then dropped on read.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	return &MemoryStore{items: gocache.New(gocache.NoExpiration, cleanupInterval)}
}

func (m *MemoryStore) Create(_ context.Context, session *Session) error {
	if session == nil || session.Token == "" {
		return ErrInvalidSession
	}
	ttl := session.TTL()
	if ttl <= 0 {
		return ErrSessionExpired
	}
	m.items.Set(session.Token, session.clone(), ttl)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, token string) (*Session, error) {
	v, ok := m.items.Get(token)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return v.(*Session).clone(), nil
}

func (m *MemoryStore) Update(_ context.Context, session *Session) error {
	if session == nil || session.Token == "" {
		return ErrInvalidSession
	}
	ttl := session.TTL()
	if ttl <= 0 {
		return ErrSessionExpired
	}
	if err := m.items.Replace(session.Token, session.clone(), ttl); err != nil {
		return ErrSessionNotFound
	}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, token string) error {
	m.items.Delete(token)
	return nil
}

// Len returns the number of stored sessions, including expired ones the
// janitor has not yet evicted.
func (m *MemoryStore) Len() int {
	return m.items.ItemCount()
}
