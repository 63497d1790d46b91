package authmethod

import (
	"context"
	"maps"

	"github.com/dmitrymomot/oauthkit/pkg/identity"
	"github.com/dmitrymomot/oauthkit/pkg/oauth"
)

const (
	googleMetadataURL = "https://accounts.google.com/.well-known/openid-configuration"
	googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"
)

// Google signs users in through Google's OpenID Connect endpoints.
type Google struct{}

// Name returns the provider name.
func (Google) Name() string { return "google" }

// Configure points the setting at Google's discovery document, which also
// supplies the keys for ID token verification, and defaults the scopes.
// Explicit endpoint URLs still take precedence for the handshake.
func (Google) Configure(s *oauth.Setting) error {
	defaultURL(&s.ServerMetadataURL, googleMetadataURL)
	if len(s.Scopes()) == 0 {
		s.SetKwarg(oauth.KwargScope, "openid email profile")
	}
	return nil
}

// UserInfo prefers the verified ID token claims and falls back to the
// userinfo endpoint named by the discovery document.
func (Google) UserInfo(ctx context.Context, c oauth.Capability, tok *oauth.Token) (map[string]any, error) {
	if len(tok.UserInfo) > 0 {
		return maps.Clone(tok.UserInfo), nil
	}
	endpoint, err := userInfoEndpoint(ctx, c, googleUserInfoURL)
	if err != nil {
		return nil, err
	}
	return fetchJSON(ctx, c, tok, endpoint, nil)
}

// Normalize maps standard OpenID Connect claims.
func (Google) Normalize(raw map[string]any) (identity.Identity, error) {
	return identity.FromClaims(raw), nil
}
