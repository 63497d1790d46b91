package oauth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dghubble/oauth1"
)

// oauth1Capability runs the three-legged OAuth 1.0a flow.
type oauth1Capability struct {
	setting Setting
	client  *Client
}

var _ Capability = (*oauth1Capability)(nil)

func newOAuth1Capability(s Setting, c *Client) *oauth1Capability {
	return &oauth1Capability{setting: s, client: c}
}

func (c *oauth1Capability) config(callbackURL string) (*oauth1.Config, error) {
	s := c.setting
	requestURL, err := s.ResolveURL(s.RequestTokenURL)
	if err != nil {
		return nil, err
	}
	authorizeURL, err := s.ResolveURL(s.AuthorizeURL)
	if err != nil {
		return nil, err
	}
	accessURL, err := s.ResolveURL(s.AccessTokenURL)
	if err != nil {
		return nil, err
	}

	return &oauth1.Config{
		ConsumerKey:    s.ClientID,
		ConsumerSecret: s.ClientSecret,
		CallbackURL:    callbackURL,
		HTTPClient:     c.client.httpClient,
		Endpoint: oauth1.Endpoint{
			RequestTokenURL: requestURL,
			AuthorizeURL:    authorizeURL,
			AccessTokenURL:  accessURL,
		},
	}, nil
}

func (c *oauth1Capability) AuthorizeRedirect(w http.ResponseWriter, r *http.Request, redirectURI string) error {
	cfg, err := c.config(redirectURI)
	if err != nil {
		return err
	}

	requestToken, requestSecret, err := cfg.RequestToken()
	if err != nil {
		return fmt.Errorf("%w: %s: request token: %v", ErrTokenExchange, c.setting.Name, err)
	}

	hs := handshake{RedirectURI: redirectURI, RequestSecret: requestSecret}
	if err := saveHandshake(r.Context(), c.client.store, w, r, c.setting.Name, requestToken, hs); err != nil {
		return fmt.Errorf("store handshake state: %w", err)
	}

	authURL, err := cfg.AuthorizationURL(requestToken)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrConfiguration, c.setting.Name, err)
	}
	q := authURL.Query()
	for k, v := range c.setting.AuthorizeParams {
		q.Set(k, v)
	}
	authURL.RawQuery = q.Encode()

	http.Redirect(w, r, authURL.String(), http.StatusFound)
	return nil
}

func (c *oauth1Capability) AuthorizeAccessToken(ctx context.Context, r *http.Request) (*Token, error) {
	name := c.setting.Name
	if denied := r.URL.Query().Get("denied"); denied != "" {
		return nil, fmt.Errorf("%w: %s: user denied access", ErrTokenExchange, name)
	}

	requestToken, verifier, err := oauth1.ParseAuthorizationCallback(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTokenExchange, name, err)
	}

	hs, err := popHandshake(ctx, c.client.store, r, name, requestToken)
	if err != nil {
		return nil, err
	}

	cfg, err := c.config(hs.RedirectURI)
	if err != nil {
		return nil, err
	}

	accessToken, accessSecret, err := cfg.AccessToken(requestToken, hs.RequestSecret, verifier)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: access token: %v", ErrTokenExchange, name, err)
	}

	return &Token{
		AccessToken: accessToken,
		TokenType:   "oauth1",
		Secret:      accessSecret,
	}, nil
}

func (c *oauth1Capability) Get(ctx context.Context, path string, token *Token, query url.Values) (*http.Response, error) {
	if token == nil {
		return nil, fmt.Errorf("%w: %s: oauth1 requests need a token", ErrTokenExchange, c.setting.Name)
	}

	target, err := c.setting.ResolveURL(path)
	if err != nil {
		return nil, err
	}
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	cfg, err := c.config("")
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	httpCtx := context.WithValue(ctx, oauth1.HTTPClient, c.client.httpClient)
	return cfg.Client(httpCtx, oauth1.NewToken(token.AccessToken, token.Secret)).Do(req)
}
