package oauthkit

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrymomot/oauthkit/pkg/metrics"
	"github.com/dmitrymomot/oauthkit/pkg/session"
)

// Option configures an App.
type Option func(*App)

// WithPrefix mounts the login routes under prefix, e.g. "/auth".
func WithPrefix(prefix string) Option {
	return func(a *App) {
		prefix = strings.Trim(strings.TrimSpace(prefix), "/")
		if prefix != "" {
			prefix = "/" + prefix
		}
		a.prefix = prefix
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithSessionStore replaces the in-memory handshake store, e.g. with a
// session.RedisStore when several instances serve the callback.
func WithSessionStore(store session.Store) Option {
	return func(a *App) {
		a.store = store
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(a *App) {
		a.httpClient = c
	}
}

func WithMetrics(rec metrics.Recorder) Option {
	return func(a *App) {
		if rec != nil {
			a.metrics = rec
		}
	}
}

// WithSessionConfig replaces the whole session configuration.
func WithSessionConfig(cfg session.Config) Option {
	return func(a *App) {
		a.sessionConfig = cfg
	}
}

// WithSessionTTL bounds how long handshake state survives.
func WithSessionTTL(ttl time.Duration) Option {
	return func(a *App) {
		if ttl > 0 {
			a.sessionConfig.TTL = ttl
		}
	}
}

func WithSecureCookies(secure bool) Option {
	return func(a *App) {
		a.sessionConfig.SecureCookies = secure
	}
}

// WithTrustForwardedHeaders builds callback URLs from X-Forwarded-Proto and
// X-Forwarded-Host.
func WithTrustForwardedHeaders(trust bool) Option {
	return func(a *App) {
		a.trustForwarded = trust
	}
}
