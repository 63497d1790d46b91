package authmethod

import (
	"context"

	"github.com/dmitrymomot/oauthkit/pkg/identity"
)

// AuthLogic is implemented by the embedding application. The lifecycle never
// stores users; it asks Login first and falls back to Signup once.
//
// Login must be safe to call twice in a row for the same identity. It reports
// ok=false when the user is unknown. A returned error aborts the callback.
type AuthLogic interface {
	Login(ctx context.Context, ident identity.Identity) (token string, ok bool, err error)
	Signup(ctx context.Context, ident identity.Identity) error
}
