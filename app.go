package oauthkit

import (
	"crypto/subtle"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/oauthkit/pkg/authmethod"
	"github.com/dmitrymomot/oauthkit/pkg/cookie"
	"github.com/dmitrymomot/oauthkit/pkg/logger"
	"github.com/dmitrymomot/oauthkit/pkg/metrics"
	"github.com/dmitrymomot/oauthkit/pkg/oauth"
	"github.com/dmitrymomot/oauthkit/pkg/session"
)

// MinSecretLength is the shortest accepted application secret.
const MinSecretLength = 32

var _ oauth.StateStore = (*session.Manager)(nil)

// App binds a router to the single OAuth client of the process and to the
// session that carries handshake state between the login and callback steps.
// Construct it once at startup and share it.
type App struct {
	secret string
	prefix string

	logger         *slog.Logger
	metrics        metrics.Recorder
	httpClient     *http.Client
	store          session.Store
	sessionConfig  session.Config
	trustForwarded bool

	mount    chi.Router
	sessions *session.Manager
	client   *oauth.Client

	mu         sync.Mutex
	registry   *oauth.Registry
	lifecycles map[string]*authmethod.Lifecycle
}

// New creates the App. Login routes are mounted on router under the prefix
// and wrapped with the session middleware.
func New(router chi.Router, secret string, opts ...Option) (*App, error) {
	if router == nil {
		return nil, fmt.Errorf("%w: router is required", ErrConfiguration)
	}
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("%w: secret must be at least %d bytes", ErrConfiguration, MinSecretLength)
	}

	a := &App{
		secret:        secret,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics:       metrics.NewNoop(),
		sessionConfig: session.DefaultConfig(),
		lifecycles:    make(map[string]*authmethod.Lifecycle),
	}
	for _, opt := range opts {
		opt(a)
	}

	cookies, err := cookie.New([]string{secret})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	sessionOpts := []session.Option{
		session.WithConfig(a.sessionConfig),
		session.WithCookieManager(cookies),
		session.WithLogger(a.logger),
	}
	if a.store != nil {
		sessionOpts = append(sessionOpts, session.WithStore(a.store))
	}
	if a.sessions, err = session.New(sessionOpts...); err != nil {
		return nil, err
	}

	clientOpts := []oauth.ClientOption{oauth.WithLogger(a.logger)}
	if a.httpClient != nil {
		clientOpts = append(clientOpts, oauth.WithHTTPClient(a.httpClient))
	}
	if a.client, err = oauth.NewClient(a.sessions, clientOpts...); err != nil {
		return nil, err
	}

	if a.prefix == "" {
		a.mount = router.With(a.sessions.Middleware)
	} else {
		a.mount = router.Route(a.prefix, func(r chi.Router) {
			r.Use(a.sessions.Middleware)
		})
	}
	return a, nil
}

// Bind checks that secret is the one the App was created with.
// Binding twice with a different secret is a configuration error.
func (a *App) Bind(secret string) error {
	if subtle.ConstantTimeCompare([]byte(secret), []byte(a.secret)) != 1 {
		return fmt.Errorf("%w: app is already bound to a different secret", ErrConfiguration)
	}
	return nil
}

// Use installs one login method per setting. Settings are selected by name,
// so each name must have a built-in method and can be used once.
func (a *App) Use(logic authmethod.AuthLogic, settings ...oauth.Setting) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.registry == nil {
		reg, err := oauth.NewRegistry(a.client)
		if err != nil {
			return err
		}
		a.registry = reg
	}

	for _, s := range settings {
		m, err := authmethod.ForName(s.Name)
		if err != nil {
			return err
		}
		s.Name = m.Name()
		if err := a.registry.Add(s); err != nil {
			return err
		}

		lc, err := authmethod.Install(a.mount, a.registry, m, logic,
			authmethod.WithPrefix(a.prefix),
			authmethod.WithLogger(a.logger),
			authmethod.WithMetrics(a.metrics),
			authmethod.WithTrustForwardedHeaders(a.trustForwarded),
		)
		if err != nil {
			a.registry.Remove(s.Name)
			return fmt.Errorf("install %s: %w", s.Name, err)
		}
		a.lifecycles[m.Name()] = lc
	}
	return nil
}

// Registry returns the provider registry, or nil before the first Use.
func (a *App) Registry() *oauth.Registry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.registry
}

// Providers returns the names of the installed providers in sorted order.
func (a *App) Providers() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	names := make([]string, 0, len(a.lifecycles))
	for name := range a.lifecycles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoginURL returns the login path of an installed provider, prefix included.
func (a *App) LoginURL(provider string) (string, error) {
	a.mu.Lock()
	lc, ok := a.lifecycles[strings.ToLower(provider)]
	a.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("%w: %s", oauth.ErrUnknownProvider, provider)
	}
	return a.prefix + lc.LoginPath(), nil
}

// Sessions returns the session manager backing the handshake state.
func (a *App) Sessions() *session.Manager { return a.sessions }

// Close releases the session store.
func (a *App) Close() error {
	if err := a.sessions.Close(); err != nil {
		a.logger.Error("failed to close session store", logger.Component("oauthkit"), logger.Error(err))
		return err
	}
	return nil
}
