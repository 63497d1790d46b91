package main

import (
	"context"
	"strings"
	"sync"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/oauthkit/pkg/identity"
	"github.com/dmitrymomot/oauthkit/pkg/jwt"
)

type user struct {
	ID        uuid.UUID
	Email     string
	Name      string
	CreatedAt time.Time
}

// userDirectory is an in-memory user store that issues HS256 tokens.
// Users are keyed by verified email, so one person signing in through two
// providers is one user. Without a verified email the key is the
// provider-scoped subject.
type userDirectory struct {
	mu     sync.RWMutex
	users  map[string]user
	signer *jwt.Service
	ttl    time.Duration
	now    func() time.Time
}

func newUserDirectory(signer *jwt.Service, ttl time.Duration) *userDirectory {
	return &userDirectory{
		users:  make(map[string]user),
		signer: signer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// providerUsers is the AuthLogic view of the directory for one provider.
type providerUsers struct {
	dir      *userDirectory
	provider string
}

func (d *userDirectory) forProvider(name string) *providerUsers {
	return &providerUsers{dir: d, provider: strings.ToLower(name)}
}

func (p *providerUsers) Login(ctx context.Context, ident identity.Identity) (string, bool, error) {
	return p.dir.login(userKey(p.provider, ident))
}

func (p *providerUsers) Signup(ctx context.Context, ident identity.Identity) error {
	p.dir.signup(userKey(p.provider, ident), ident)
	return nil
}

func userKey(provider string, ident identity.Identity) string {
	if ident.Email != "" && ident.EmailVerified.Truthy() {
		return "email:" + strings.ToLower(ident.Email)
	}
	return "sub:" + provider + ":" + ident.Subject
}

func (d *userDirectory) login(key string) (string, bool, error) {
	d.mu.RLock()
	u, ok := d.users[key]
	d.mu.RUnlock()
	if !ok {
		return "", false, nil
	}

	now := d.now()
	token, err := d.signer.Generate(&jwt.Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   u.ID.String(),
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(d.ttl)),
		},
		Email: u.Email,
		Name:  u.Name,
	})
	if err != nil {
		return "", false, err
	}
	return token, true, nil
}

func (d *userDirectory) signup(key string, ident identity.Identity) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.users[key]; ok {
		return
	}
	name := ident.DisplayName
	if name == "" {
		name = ident.PreferredUsername
	}
	d.users[key] = user{
		ID:        uuid.New(),
		Email:     ident.Email,
		Name:      name,
		CreatedAt: d.now(),
	}
}
