package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
)

// Capability performs the protocol handshake for one provider.
type Capability interface {
	// AuthorizeRedirect stores the handshake state for the requesting client and
	// redirects it to the provider's consent page.
	AuthorizeRedirect(w http.ResponseWriter, r *http.Request, redirectURI string) error

	// AuthorizeAccessToken validates the callback request and exchanges it for an access token.
	AuthorizeAccessToken(ctx context.Context, r *http.Request) (*Token, error)

	// Get issues an authenticated GET request. Relative paths resolve against the
	// provider's API base URL.
	Get(ctx context.Context, path string, token *Token, query url.Values) (*http.Response, error)
}

// MetadataSource is implemented by capabilities whose endpoints can come from
// a provider metadata document.
type MetadataSource interface {
	// Metadata returns the provider document, or nil when the setting has no
	// server_metadata_url.
	Metadata(ctx context.Context) (*oidc.ProviderConfig, error)
}

// Token is the result of a successful handshake.
type Token struct {
	AccessToken  string
	TokenType    string
	RefreshToken string
	Expiry       time.Time
	Secret       string // OAuth1 token secret
	IDToken      string
	UserInfo     map[string]any // verified ID token claims, when the provider issued one
}

// StateStore keeps transient handshake state for a single client between the
// login redirect and the callback. Entries must expire on their own.
type StateStore interface {
	Set(ctx context.Context, w http.ResponseWriter, r *http.Request, key string, value any) error
	Pop(ctx context.Context, r *http.Request, key string) (any, error)
}

// handshake is the state persisted between the two legs of the flow.
type handshake struct {
	RedirectURI   string `json:"redirect_uri,omitempty"`
	CodeVerifier  string `json:"code_verifier,omitempty"`
	Nonce         string `json:"nonce,omitempty"`
	RequestSecret string `json:"request_secret,omitempty"`
}

func stateKey(provider, state string) string {
	return "_state_" + provider + "_" + state
}

func saveHandshake(ctx context.Context, store StateStore, w http.ResponseWriter, r *http.Request, provider, state string, hs handshake) error {
	data, err := json.Marshal(hs)
	if err != nil {
		return err
	}
	return store.Set(ctx, w, r, stateKey(provider, state), string(data))
}

func popHandshake(ctx context.Context, store StateStore, r *http.Request, provider, state string) (handshake, error) {
	var hs handshake
	v, err := store.Pop(ctx, r, stateKey(provider, state))
	if err != nil {
		return hs, fmt.Errorf("%w: %s: state not found or expired: %v", ErrTokenExchange, provider, err)
	}
	data, ok := v.(string)
	if !ok {
		return hs, fmt.Errorf("%w: %s: malformed handshake state", ErrTokenExchange, provider)
	}
	if err := json.Unmarshal([]byte(data), &hs); err != nil {
		return hs, fmt.Errorf("%w: %s: malformed handshake state: %v", ErrTokenExchange, provider, err)
	}
	return hs, nil
}
