package oauth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/dmitrymomot/oauthkit/pkg/logger"
)

// oauth2Capability runs the authorization code flow, with PKCE and OpenID
// Connect ID token verification when the setting asks for them.
type oauth2Capability struct {
	setting Setting
	client  *Client

	mu       sync.Mutex
	verifier *oidc.IDTokenVerifier
}

var (
	_ Capability     = (*oauth2Capability)(nil)
	_ MetadataSource = (*oauth2Capability)(nil)
)

func newOAuth2Capability(s Setting, c *Client) *oauth2Capability {
	return &oauth2Capability{setting: s, client: c}
}

func (c *oauth2Capability) metadata(ctx context.Context) (*oidc.ProviderConfig, error) {
	if c.setting.ServerMetadataURL == "" {
		return nil, nil
	}
	return c.client.metadata.Resolve(ctx, c.setting.ServerMetadataURL)
}

// Metadata returns the resolved provider metadata document.
func (c *oauth2Capability) Metadata(ctx context.Context) (*oidc.ProviderConfig, error) {
	return c.metadata(ctx)
}

func (c *oauth2Capability) config(ctx context.Context, redirectURI string) (*oauth2.Config, error) {
	s := c.setting

	var authURL, tokenURL string
	var err error
	if s.AuthorizeURL != "" {
		if authURL, err = s.ResolveURL(s.AuthorizeURL); err != nil {
			return nil, err
		}
	}
	if s.AccessTokenURL != "" {
		if tokenURL, err = s.ResolveURL(s.AccessTokenURL); err != nil {
			return nil, err
		}
	}

	if authURL == "" || tokenURL == "" {
		meta, err := c.metadata(ctx)
		if err != nil {
			return nil, err
		}
		if meta == nil {
			return nil, fmt.Errorf("%w: %s: no authorize or token endpoint", ErrConfiguration, s.Name)
		}
		if authURL == "" {
			authURL = meta.AuthURL
		}
		if tokenURL == "" {
			tokenURL = meta.TokenURL
		}
	}

	return &oauth2.Config{
		ClientID:     s.ClientID,
		ClientSecret: s.ClientSecret,
		RedirectURL:  redirectURI,
		Scopes:       s.Scopes(),
		Endpoint: oauth2.Endpoint{
			AuthURL:   authURL,
			TokenURL:  tokenURL,
			AuthStyle: s.AuthStyle(),
		},
	}, nil
}

func (c *oauth2Capability) AuthorizeRedirect(w http.ResponseWriter, r *http.Request, redirectURI string) error {
	ctx := r.Context()

	cfg, err := c.config(ctx, redirectURI)
	if err != nil {
		return err
	}

	state, err := randomToken()
	if err != nil {
		return err
	}

	hs := handshake{RedirectURI: redirectURI}
	opts := make([]oauth2.AuthCodeOption, 0, len(c.setting.AuthorizeParams)+2)
	for k, v := range c.setting.AuthorizeParams {
		opts = append(opts, oauth2.SetAuthURLParam(k, v))
	}
	if c.setting.UsePKCE() {
		hs.CodeVerifier = oauth2.GenerateVerifier()
		opts = append(opts, oauth2.S256ChallengeOption(hs.CodeVerifier))
	}
	if c.setting.HasScope(oidc.ScopeOpenID) {
		if hs.Nonce, err = randomToken(); err != nil {
			return err
		}
		opts = append(opts, oidc.Nonce(hs.Nonce))
	}

	if err := saveHandshake(ctx, c.client.store, w, r, c.setting.Name, state, hs); err != nil {
		return fmt.Errorf("store handshake state: %w", err)
	}

	http.Redirect(w, r, cfg.AuthCodeURL(state, opts...), http.StatusFound)
	return nil
}

func (c *oauth2Capability) AuthorizeAccessToken(ctx context.Context, r *http.Request) (*Token, error) {
	name := c.setting.Name
	q := r.URL.Query()

	if code := q.Get("error"); code != "" {
		if desc := q.Get("error_description"); desc != "" {
			code += ": " + desc
		}
		return nil, fmt.Errorf("%w: %s: provider returned %s", ErrTokenExchange, name, code)
	}

	state, code := q.Get("state"), q.Get("code")
	if state == "" || code == "" {
		return nil, fmt.Errorf("%w: %s: callback is missing code or state", ErrTokenExchange, name)
	}

	hs, err := popHandshake(ctx, c.client.store, r, name, state)
	if err != nil {
		return nil, err
	}

	cfg, err := c.config(ctx, hs.RedirectURI)
	if err != nil {
		return nil, err
	}

	opts := make([]oauth2.AuthCodeOption, 0, len(c.setting.AccessTokenParams)+1)
	for k, v := range c.setting.AccessTokenParams {
		opts = append(opts, oauth2.SetAuthURLParam(k, v))
	}
	if hs.CodeVerifier != "" {
		opts = append(opts, oauth2.VerifierOption(hs.CodeVerifier))
	}

	tok, err := cfg.Exchange(context.WithValue(ctx, oauth2.HTTPClient, c.client.httpClient), code, opts...)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.ErrorCode != "" {
			return nil, fmt.Errorf("%w: %s: %s %s", ErrTokenExchange, name, re.ErrorCode, re.ErrorDescription)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrTokenExchange, name, err)
	}

	out := &Token{
		AccessToken:  tok.AccessToken,
		TokenType:    tok.Type(),
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	}

	rawIDToken, _ := tok.Extra("id_token").(string)
	if rawIDToken == "" || !c.setting.HasScope(oidc.ScopeOpenID) {
		return out, nil
	}
	out.IDToken = rawIDToken

	claims, err := c.verifyIDToken(ctx, rawIDToken, hs.Nonce)
	if err != nil {
		c.client.logger.WarnContext(ctx, "id token rejected",
			logger.Component("oauth"),
			logger.Provider(name),
			logger.Error(err),
		)
		return nil, err
	}
	out.UserInfo = claims
	return out, nil
}

func (c *oauth2Capability) verifyIDToken(ctx context.Context, raw, nonce string) (map[string]any, error) {
	verifier, err := c.idTokenVerifier(ctx)
	if err != nil {
		return nil, err
	}

	idToken, err := verifier.Verify(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: invalid id token: %v", ErrTokenExchange, c.setting.Name, err)
	}
	if nonce != "" && idToken.Nonce != nonce {
		return nil, fmt.Errorf("%w: %s: id token nonce mismatch", ErrTokenExchange, c.setting.Name)
	}

	var claims map[string]any
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%w: %s: decode id token claims: %v", ErrTokenExchange, c.setting.Name, err)
	}
	return claims, nil
}

// idTokenVerifier builds the verifier on first use. The key set outlives the
// request, so it is bound to a background context carrying the HTTP client.
func (c *oauth2Capability) idTokenVerifier(ctx context.Context) (*oidc.IDTokenVerifier, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.verifier != nil {
		return c.verifier, nil
	}

	meta, err := c.metadata(ctx)
	if err != nil {
		return nil, err
	}
	if meta == nil || meta.JWKSURL == "" {
		return nil, fmt.Errorf("%w: %s: openid scope requested without a metadata document exposing jwks_uri", ErrConfiguration, c.setting.Name)
	}

	provider := meta.NewProvider(oidc.ClientContext(context.Background(), c.client.httpClient))
	c.verifier = provider.Verifier(&oidc.Config{ClientID: c.setting.ClientID})
	return c.verifier, nil
}

func (c *oauth2Capability) Get(ctx context.Context, path string, token *Token, query url.Values) (*http.Response, error) {
	target, err := c.setting.ResolveURL(path)
	if err != nil {
		return nil, err
	}
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if token != nil && token.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	}

	c.client.logger.DebugContext(ctx, "provider api request",
		logger.Component("oauth"),
		logger.Provider(c.setting.Name),
		slog.String("url", target),
	)
	return c.client.httpClient.Do(req)
}
