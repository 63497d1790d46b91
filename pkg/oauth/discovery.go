package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/oauthkit/pkg/cache"
)

// metadataResolver loads provider metadata documents lazily, once per URL.
type metadataResolver struct {
	httpClient *http.Client
	group      singleflight.Group
	cache      *cache.LRU[string, *oidc.ProviderConfig]
}

func newMetadataResolver(httpClient *http.Client, size int, ttl time.Duration) *metadataResolver {
	return &metadataResolver{
		httpClient: httpClient,
		cache:      cache.NewLRU[string, *oidc.ProviderConfig](size, ttl),
	}
}

// Resolve returns the metadata behind metadataURL. Concurrent callers for the
// same URL share a single fetch.
func (m *metadataResolver) Resolve(ctx context.Context, metadataURL string) (*oidc.ProviderConfig, error) {
	if cfg, ok := m.cache.Get(metadataURL); ok {
		return cfg, nil
	}

	v, err, _ := m.group.Do(metadataURL, func() (any, error) {
		cfg, err := m.fetch(context.WithoutCancel(ctx), metadataURL)
		if err != nil {
			return nil, err
		}
		m.cache.Put(metadataURL, cfg)
		return cfg, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*oidc.ProviderConfig), nil
}

func (m *metadataResolver) fetch(ctx context.Context, metadataURL string) (*oidc.ProviderConfig, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, metadataURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMetadataDiscovery, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMetadataDiscovery, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: %s: %s: %s", ErrMetadataDiscovery, metadataURL, resp.Status, body)
	}

	var cfg oidc.ProviderConfig
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMetadataDiscovery, metadataURL, err)
	}
	if cfg.AuthURL == "" || cfg.TokenURL == "" {
		return nil, fmt.Errorf("%w: %s: document has no authorization or token endpoint", ErrMetadataDiscovery, metadataURL)
	}
	return &cfg, nil
}
