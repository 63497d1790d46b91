package oauth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrymomot/oauthkit/pkg/logger"
)

// Client owns the handshake capabilities of every registered provider.
// One Client is shared by the whole process.
type Client struct {
	mu           sync.RWMutex
	settings     map[string]Setting
	capabilities map[string]Capability

	store      StateStore
	httpClient *http.Client
	logger     *slog.Logger
	metadata   *metadataResolver

	metadataCacheSize int
	metadataTTL       time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client used for every provider call.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		if c != nil {
			cl.httpClient = c
		}
	}
}

// WithLogger sets the logger for handshake diagnostics.
func WithLogger(l *slog.Logger) ClientOption {
	return func(cl *Client) {
		if l != nil {
			cl.logger = l
		}
	}
}

// WithMetadataCache bounds the number of cached metadata documents and how long they live.
func WithMetadataCache(size int, ttl time.Duration) ClientOption {
	return func(cl *Client) {
		if size > 0 {
			cl.metadataCacheSize = size
		}
		if ttl > 0 {
			cl.metadataTTL = ttl
		}
	}
}

// NewClient creates a Client that persists handshake state in store.
func NewClient(store StateStore, opts ...ClientOption) (*Client, error) {
	if store == nil {
		return nil, ErrNilStateStore
	}

	c := &Client{
		settings:          make(map[string]Setting),
		capabilities:      make(map[string]Capability),
		store:             store,
		httpClient:        &http.Client{Timeout: 15 * time.Second},
		logger:            slog.New(slog.NewTextHandler(io.Discard, nil)),
		metadataCacheSize: 32,
		metadataTTL:       24 * time.Hour,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.metadata = newMetadataResolver(c.httpClient, c.metadataCacheSize, c.metadataTTL)
	return c, nil
}

// Register binds a handshake capability to the setting's provider name.
// Registering an identical setting again is a no-op. A different setting under
// an existing name fails with ErrDuplicateProvider unless overwrite is set.
func (c *Client) Register(s Setting, overwrite bool) error {
	if err := s.Validate(); err != nil {
		return err
	}
	s = s.Clone()

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.settings[s.Name]; ok {
		if existing.Equal(s) {
			return nil
		}
		if !overwrite {
			return fmt.Errorf("%w: %s is already registered with a different configuration", ErrDuplicateProvider, s.Name)
		}
	}

	var capability Capability
	switch s.Protocol() {
	case OAuth1:
		capability = newOAuth1Capability(s, c)
	default:
		capability = newOAuth2Capability(s, c)
	}

	c.settings[s.Name] = s
	c.capabilities[s.Name] = capability

	c.logger.Debug("provider registered",
		logger.Component("oauth"),
		logger.Provider(s.Name),
		slog.String("protocol", string(s.Protocol())),
	)
	return nil
}

func (c *Client) unregister(name string) {
	c.mu.Lock()
	delete(c.settings, name)
	delete(c.capabilities, name)
	c.mu.Unlock()
}

// Capability returns the handshake capability registered for name.
func (c *Client) Capability(name string) (Capability, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	capability, ok := c.capabilities[name]
	return capability, ok
}

// randomToken returns a URL-safe random string suitable for state and nonce values.
func randomToken() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
