package authmethod

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrymomot/oauthkit/pkg/identity"
	"github.com/dmitrymomot/oauthkit/pkg/oauth"
)

// Method is the per-provider behaviour plugged into the lifecycle.
type Method interface {
	// Name is the provider name the method serves.
	Name() string

	// Configure derives the endpoints that cannot be expressed statically.
	// It works on a copy of the registered setting.
	Configure(s *oauth.Setting) error

	// UserInfo returns the raw userinfo payload for an exchanged token,
	// either from the verified ID token or from a follow-up API call.
	UserInfo(ctx context.Context, c oauth.Capability, tok *oauth.Token) (map[string]any, error)

	// Normalize maps the raw payload onto an Identity. It must be pure.
	Normalize(raw map[string]any) (identity.Identity, error)
}

var methods = map[string]Method{
	"google":  Google{},
	"github":  GitHub{},
	"zoom":    Zoom{},
	"okta":    Okta{},
	"twitter": Twitter{},
}

// ForName returns the method serving the named provider.
func ForName(name string) (Method, error) {
	m, ok := methods[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: no login method for %q", oauth.ErrUnknownProvider, name)
	}
	return m, nil
}

// Names returns the providers with a built-in method.
func Names() []string {
	return []string{"github", "google", "okta", "twitter", "zoom"}
}

// defaultURL fills *field when it is empty.
func defaultURL(field *string, value string) {
	if *field == "" {
		*field = value
	}
}
