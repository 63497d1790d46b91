package authmethod

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/dmitrymomot/oauthkit/pkg/oauth"
)

const maxUserInfoSize = 1 << 20

// userInfoEndpoint returns the userinfo_endpoint of the provider metadata
// document, or fallback when the capability has no document or the document
// names no endpoint.
func userInfoEndpoint(ctx context.Context, c oauth.Capability, fallback string) (string, error) {
	src, ok := c.(oauth.MetadataSource)
	if !ok {
		return fallback, nil
	}
	meta, err := src.Metadata(ctx)
	if err != nil {
		return "", err
	}
	if meta == nil || meta.UserInfoURL == "" {
		return fallback, nil
	}
	return meta.UserInfoURL, nil
}

// fetchJSON issues an authenticated GET and decodes a JSON object.
// Numbers are kept as json.Number so large ids survive.
func fetchJSON(ctx context.Context, c oauth.Capability, tok *oauth.Token, path string, query url.Values) (map[string]any, error) {
	resp, err := c.Get(ctx, path, tok, query)
	if err != nil {
		if errors.Is(err, oauth.ErrConfiguration) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrUserInfoFetch, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: %s: %s: %s", ErrUserInfoFetch, path, resp.Status, body)
	}

	dec := json.NewDecoder(io.LimitReader(resp.Body, maxUserInfoSize))
	dec.UseNumber()

	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %s: decode: %v", ErrUserInfoFetch, path, err)
	}
	if out == nil {
		return nil, fmt.Errorf("%w: %s: empty payload", ErrUserInfoFetch, path)
	}
	return out, nil
}
