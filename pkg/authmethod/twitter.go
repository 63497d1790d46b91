package authmethod

import (
	"context"
	"net/url"

	"github.com/dmitrymomot/oauthkit/pkg/identity"
	"github.com/dmitrymomot/oauthkit/pkg/oauth"
)

const twitterRoot = "https://api.twitter.com"

// Twitter signs users in over OAuth 1.0a.
type Twitter struct{}

// Name returns the provider name.
func (Twitter) Name() string { return "twitter" }

// Configure fills the OAuth 1.0a endpoints and the v1.1 API root that are not set.
func (Twitter) Configure(s *oauth.Setting) error {
	defaultURL(&s.APIBaseURL, twitterRoot+"/1.1/")
	defaultURL(&s.RequestTokenURL, twitterRoot+"/oauth/request_token")
	defaultURL(&s.AccessTokenURL, twitterRoot+"/oauth/access_token")
	defaultURL(&s.AuthorizeURL, twitterRoot+"/oauth/authenticate")
	return nil
}

// UserInfo calls verify_credentials with the email included.
func (Twitter) UserInfo(ctx context.Context, c oauth.Capability, tok *oauth.Token) (map[string]any, error) {
	q := url.Values{}
	q.Set("include_email", "true")
	q.Set("skip_status", "true")
	return fetchJSON(ctx, c, tok, "account/verify_credentials.json", q)
}

// Normalize maps verify_credentials. The string id is preferred over the
// numeric one.
func (Twitter) Normalize(raw map[string]any) (identity.Identity, error) {
	p := identity.NewPayload(raw)

	sub, _ := p.Lookup("id_str")
	if sub == "" {
		sub, _ = p.Lookup("id")
	}
	if sub == "" {
		return identity.Identity{}, &identity.IncompleteError{
			Provider: "twitter",
			Field:    "id",
			Reason:   "account has no id",
		}
	}

	return identity.Identity{
		Subject:           sub,
		DisplayName:       p.String("name"),
		PreferredUsername: p.String("screen_name"),
		PictureURL:        p.String("profile_image_url_https"),
		Website:           p.String("url"),
		Email:             p.String("email"),
		Address:           p.String("location"),
		Extra:             p.Remaining(),
	}, nil
}
