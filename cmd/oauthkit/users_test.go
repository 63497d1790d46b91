package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/oauthkit/pkg/identity"
	"github.com/dmitrymomot/oauthkit/pkg/jwt"
)

func subjectOf(t *testing.T, signer *jwt.Service, token string) string {
	t.Helper()
	claims := &jwt.Claims{}
	require.NoError(t, signer.Parse(token, claims))
	return claims.Subject
}

func TestUserDirectory(t *testing.T) {
	t.Parallel()

	signer, err := jwt.NewFromString("0123456789abcdef0123456789abcdef", jwt.WithIssuer("oauthkit"))
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("signup then login", func(t *testing.T) {
		t.Parallel()
		dir := newUserDirectory(signer, time.Hour)
		google := dir.forProvider("google")
		alice := identity.Identity{Subject: "g-1", DisplayName: "alice", Email: "alice@example.com", EmailVerified: identity.BoolFlag(true)}

		token, ok, err := google.Login(ctx, alice)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, token)

		require.NoError(t, google.Signup(ctx, alice))
		require.NoError(t, google.Signup(ctx, alice), "signup is idempotent")
		assert.Len(t, dir.users, 1)

		token, ok, err = google.Login(ctx, alice)
		require.NoError(t, err)
		require.True(t, ok)

		claims := &jwt.Claims{}
		require.NoError(t, signer.Parse(token, claims))
		assert.Equal(t, "alice@example.com", claims.Email)
		assert.Equal(t, "alice", claims.Name)
		assert.Equal(t, "oauthkit", claims.Issuer)
		assert.NotEmpty(t, claims.Subject)
	})

	t.Run("verified email links providers", func(t *testing.T) {
		t.Parallel()
		dir := newUserDirectory(signer, time.Hour)
		alice := identity.Identity{Subject: "g-1", Email: "alice@example.com", EmailVerified: identity.StringFlag("true")}
		require.NoError(t, dir.forProvider("google").Signup(ctx, alice))

		first, ok, err := dir.forProvider("google").Login(ctx, alice)
		require.NoError(t, err)
		require.True(t, ok)

		again, ok, err := dir.forProvider("GitHub").Login(ctx, identity.Identity{
			Subject: "gh-9", Email: "Alice@example.com", EmailVerified: identity.BoolFlag(true),
		})
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, subjectOf(t, signer, first), subjectOf(t, signer, again))
	})

	t.Run("unverified email does not link", func(t *testing.T) {
		t.Parallel()
		dir := newUserDirectory(signer, time.Hour)
		owner := identity.Identity{Subject: "g-1", Email: "alice@example.com", EmailVerified: identity.BoolFlag(true)}
		require.NoError(t, dir.forProvider("google").Signup(ctx, owner))

		for _, flag := range []identity.Flag{{}, identity.BoolFlag(false), identity.IntFlag(0)} {
			token, ok, err := dir.forProvider("twitter").Login(ctx, identity.Identity{
				Subject: "tw-1", Email: "alice@example.com", EmailVerified: flag,
			})
			require.NoError(t, err)
			assert.False(t, ok, "flag %v", flag)
			assert.Empty(t, token)
		}
	})

	t.Run("subjects are scoped by provider", func(t *testing.T) {
		t.Parallel()
		dir := newUserDirectory(signer, time.Hour)
		require.NoError(t, dir.forProvider("zoom").Signup(ctx, identity.Identity{Subject: "1"}))

		_, ok, err := dir.forProvider("twitter").Login(ctx, identity.Identity{Subject: "1"})
		require.NoError(t, err)
		assert.False(t, ok)

		_, ok, err = dir.forProvider("zoom").Login(ctx, identity.Identity{Subject: "1"})
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestLoadProviders(t *testing.T) {
	_, err := loadProviders("", nil)
	assert.Error(t, err)
}
