package authmethod

import (
	"context"

	"github.com/dmitrymomot/oauthkit/pkg/identity"
	"github.com/dmitrymomot/oauthkit/pkg/oauth"
)

const githubEmailHint = "Your github account doesn't have any public email. please add a public email to your github account."

// GitHub signs users in with a GitHub OAuth app. A public email is mandatory.
type GitHub struct{}

// Name returns the provider name.
func (GitHub) Name() string { return "github" }

// Configure fills the github.com endpoints that are not set and switches the
// token endpoint to HTTP basic client authentication.
func (GitHub) Configure(s *oauth.Setting) error {
	defaultURL(&s.AuthorizeURL, "https://github.com/login/oauth/authorize")
	defaultURL(&s.AccessTokenURL, "https://github.com/login/oauth/access_token")
	defaultURL(&s.APIBaseURL, "https://api.github.com/")
	s.SetKwarg(oauth.KwargTokenEndpointAuthMethod, "client_secret_basic")
	s.SetKwarg(oauth.KwargTokenPlacement, "header")
	return nil
}

// UserInfo fetches the authenticated user from the REST API.
func (GitHub) UserInfo(ctx context.Context, c oauth.Capability, tok *oauth.Token) (map[string]any, error) {
	return fetchJSON(ctx, c, tok, "user", nil)
}

// Normalize maps the /user document. The login becomes the display name and
// the full name is split into given and family name.
func (GitHub) Normalize(raw map[string]any) (identity.Identity, error) {
	p := identity.NewPayload(raw)

	email := p.String("email")
	if email == "" {
		return identity.Identity{}, &identity.IncompleteError{
			Provider: "github",
			Field:    "email",
			Reason:   "no public email on the account",
			Hint:     githubEmailHint,
			URI:      p.String("html_url"),
		}
	}

	fullName := p.String("name")
	given, family, err := identity.SplitName(fullName)
	if err != nil {
		return identity.Identity{}, &identity.IncompleteError{
			Provider: "github",
			Field:    "name",
			Reason:   err.Error(),
			Hint:     "Set your full name as first and last name on your github profile.",
			URI:      p.String("html_url"),
		}
	}

	profile := p.String("html_url")
	return identity.Identity{
		Subject:           p.String("id"),
		DisplayName:       p.String("login"),
		GivenName:         given,
		FamilyName:        family,
		MiddleName:        p.String("company"),
		Nickname:          fullName,
		PreferredUsername: p.String("node_id"),
		ProfileURL:        profile,
		PictureURL:        p.String("avatar_url"),
		Website:           profile,
		Email:             email,
		EmailVerified:     identity.BoolFlag(true),
		Locale:            p.String("location"),
		UpdatedAt:         p.String("updated_at"),
		Extra:             p.Remaining(),
	}, nil
}
