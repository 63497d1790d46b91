package authmethod

import (
	"context"

	"github.com/dmitrymomot/oauthkit/pkg/identity"
	"github.com/dmitrymomot/oauthkit/pkg/oauth"
)

// Zoom signs users in with a Zoom OAuth app.
type Zoom struct{}

// Name returns the provider name.
func (Zoom) Name() string { return "zoom" }

// Configure fills the zoom.us endpoints that are not set.
func (Zoom) Configure(s *oauth.Setting) error {
	defaultURL(&s.AuthorizeURL, "https://zoom.us/oauth/authorize")
	defaultURL(&s.AccessTokenURL, "https://zoom.us/oauth/token")
	defaultURL(&s.APIBaseURL, "https://api.zoom.us/")
	return nil
}

// UserInfo fetches the users/me document.
func (Zoom) UserInfo(ctx context.Context, c oauth.Capability, tok *oauth.Token) (map[string]any, error) {
	return fetchJSON(ctx, c, tok, "v2/users/me", nil)
}

// Normalize maps the users/me document. Zoom has a single "verified" flag that
// covers both the email and the phone number.
func (Zoom) Normalize(raw map[string]any) (identity.Identity, error) {
	p := identity.NewPayload(raw)
	verified := p.Flag("verified")
	return identity.Identity{
		Subject:             p.String("id"),
		DisplayName:         p.String("display_name"),
		GivenName:           p.String("first_name"),
		FamilyName:          p.String("last_name"),
		PreferredUsername:   p.String("display_name"),
		PictureURL:          p.String("pic_url"),
		Email:               p.String("email"),
		EmailVerified:       verified,
		Timezone:            p.String("timezone"),
		Locale:              p.String("location"),
		PhoneNumber:         p.String("phone_number"),
		PhoneNumberVerified: verified,
		Address:             p.String("location"),
		UpdatedAt:           p.String("last_login_time"),
		Extra:               p.Remaining(),
	}, nil
}
