package authmethod

import (
	"context"
	"fmt"
	"maps"
	"net/url"
	"strings"

	"github.com/dmitrymomot/oauthkit/pkg/identity"
	"github.com/dmitrymomot/oauthkit/pkg/oauth"
)

// oktaUserInfoPath is relative to the authorization server base URL.
const oktaUserInfoPath = "v1/userinfo"

// Okta signs users in against an Okta authorization server. Every endpoint is
// derived from api_base_url.
type Okta struct{}

// Name returns the provider name.
func (Okta) Name() string { return "okta" }

// Configure derives the token, authorize and metadata URLs from api_base_url.
// The base keeps a trailing slash so relative API paths stay under the
// authorization server.
func (Okta) Configure(s *oauth.Setting) error {
	base := strings.TrimRight(s.APIBaseURL, "/")
	if u, err := url.Parse(base); base == "" || err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("%w: okta: Okta Domain/API URL didn't verify", oauth.ErrConfiguration)
	}

	s.APIBaseURL = base + "/"
	s.AccessTokenURL = base + "/oauth/token"
	s.AuthorizeURL = base + "/authorize"
	s.ServerMetadataURL = base + "/.well-known/openid-configuration"
	if len(s.Scopes()) == 0 {
		s.SetKwarg(oauth.KwargScope, "openid email profile")
	}
	return nil
}

// UserInfo returns the verified ID token claims, or the userinfo endpoint's
// document when the token carried none.
func (Okta) UserInfo(ctx context.Context, c oauth.Capability, tok *oauth.Token) (map[string]any, error) {
	if len(tok.UserInfo) > 0 {
		return maps.Clone(tok.UserInfo), nil
	}
	endpoint, err := userInfoEndpoint(ctx, c, oktaUserInfoPath)
	if err != nil {
		return nil, err
	}
	return fetchJSON(ctx, c, tok, endpoint, nil)
}

// Normalize maps OpenID Connect claims and requires a subject.
func (Okta) Normalize(raw map[string]any) (identity.Identity, error) {
	ident := identity.FromClaims(raw)
	if ident.Subject == "" {
		return identity.Identity{}, &identity.IncompleteError{
			Provider: "okta",
			Field:    "sub",
			Reason:   "claims carry no subject",
		}
	}
	return ident, nil
}
