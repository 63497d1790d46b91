package authmethod

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrymomot/oauthkit/pkg/identity"
	"github.com/dmitrymomot/oauthkit/pkg/logger"
	"github.com/dmitrymomot/oauthkit/pkg/metrics"
	"github.com/dmitrymomot/oauthkit/pkg/oauth"
	"github.com/dmitrymomot/oauthkit/pkg/statemachine"
)

// Route tokens every provider is scoped to.
const (
	LoginURL     = "login"
	AuthorizeURL = "authorize"
)

// Router is the part of the HTTP router the lifecycle needs.
// chi.Router satisfies it.
type Router interface {
	Get(pattern string, h http.HandlerFunc)
}

// Option configures a Lifecycle.
type Option func(*Lifecycle)

// WithPrefix sets the path the router is mounted under. It is part of the
// callback URL sent to the provider.
func WithPrefix(prefix string) Option {
	return func(l *Lifecycle) {
		l.prefix = normalizePrefix(prefix)
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(l *Lifecycle) {
		if log != nil {
			l.logger = log
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(rec metrics.Recorder) Option {
	return func(l *Lifecycle) {
		if rec != nil {
			l.metrics = rec
		}
	}
}

// WithTrustForwardedHeaders makes the login handler build the callback origin
// from X-Forwarded-Proto and X-Forwarded-Host. Enable it only behind a proxy
// that sets them.
func WithTrustForwardedHeaders(trust bool) Option {
	return func(l *Lifecycle) {
		l.trustForwarded = trust
	}
}

// Lifecycle is one provider's installed login flow.
type Lifecycle struct {
	method     Method
	logic      AuthLogic
	setting    oauth.Setting
	auth       *oauth.Authenticator
	capability oauth.Capability

	prefix         string
	trustForwarded bool
	logger         *slog.Logger
	metrics        metrics.Recorder

	install  *statemachine.Run
	login    *statemachine.Definition
	callback *statemachine.Definition

	loginPath     string
	authorizePath string
}

// Install configures the method's provider, registers it, and installs the
// login and authorize routes on router. A provider can be installed once.
func Install(router Router, reg *oauth.Registry, m Method, logic AuthLogic, opts ...Option) (*Lifecycle, error) {
	if router == nil || reg == nil || m == nil || logic == nil {
		return nil, fmt.Errorf("%w: install needs a router, a registry, a method and auth logic", oauth.ErrConfiguration)
	}

	l := &Lifecycle{
		method:  m,
		logic:   logic,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: metrics.NewNoop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.With(logger.Component("authmethod"), logger.Provider(m.Name()))

	hook := statemachine.WithHook(l.trace)
	l.install = statemachine.MustDefine(StateConfiguring, installTransitions, hook).Start()
	l.login = statemachine.MustDefine(StatePending, loginTransitions, hook)
	l.callback = statemachine.MustDefine(StatePending, callbackTransitions, hook)

	setting, err := reg.Setting(m.Name())
	if err != nil {
		return nil, err
	}

	patched := setting.Clone()
	if err := m.Configure(&patched); err != nil {
		return nil, err
	}
	if err := reg.Register(patched); err != nil {
		return nil, err
	}

	auth, err := reg.Scope(m.Name(), LoginURL, AuthorizeURL)
	if err != nil {
		return nil, err
	}
	capability, err := auth.Capability()
	if err != nil {
		return nil, err
	}

	if l.loginPath, err = auth.Resolve(LoginURL); err != nil {
		return nil, err
	}
	if l.authorizePath, err = auth.Resolve(AuthorizeURL); err != nil {
		return nil, err
	}

	l.setting = patched
	l.auth = auth
	l.capability = capability

	router.Get(l.loginPath, l.handleLogin)
	router.Get(l.authorizePath, l.handleAuthorize)

	if err := l.install.Fire(context.Background(), EventInstall); err != nil {
		return nil, err
	}
	l.logger.Info("login routes installed",
		slog.String("login", l.prefix+l.loginPath),
		slog.String("authorize", l.prefix+l.authorizePath),
	)
	return l, nil
}

// Provider returns the provider name.
func (l *Lifecycle) Provider() string { return l.method.Name() }

// Setting returns the configured setting, including derived endpoints.
func (l *Lifecycle) Setting() oauth.Setting { return l.setting.Clone() }

// Authenticator returns the provider-scoped authenticator.
func (l *Lifecycle) Authenticator() *oauth.Authenticator { return l.auth }

// State returns the installation state.
func (l *Lifecycle) State() statemachine.State { return l.install.Current() }

// LoginPath returns the login route relative to the router.
func (l *Lifecycle) LoginPath() string { return l.loginPath }

// AuthorizePath returns the callback route relative to the router.
func (l *Lifecycle) AuthorizePath() string { return l.authorizePath }

func (l *Lifecycle) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	run := l.login.Start()

	err := l.redirect(w, r)
	l.metrics.RecordRedirect(l.Provider(), err == nil)
	if err != nil {
		_ = run.Fire(ctx, EventReject)
		l.fail(ctx, w, err)
		return
	}
	_ = run.Fire(ctx, EventRedirect)
}

func (l *Lifecycle) redirect(w http.ResponseWriter, r *http.Request) error {
	origin, err := l.origin(r)
	if err != nil {
		return err
	}
	return l.capability.AuthorizeRedirect(w, r, origin+l.prefix+l.authorizePath)
}

// origin returns scheme://host of the request.
func (l *Lifecycle) origin(r *http.Request) (string, error) {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	host := r.Host

	if l.trustForwarded {
		if proto := firstHeaderValue(r.Header.Get("X-Forwarded-Proto")); proto == "http" || proto == "https" {
			scheme = proto
		}
		if fwd := firstHeaderValue(r.Header.Get("X-Forwarded-Host")); fwd != "" {
			host = fwd
		}
	}

	if host == "" {
		return "", fmt.Errorf("%w: request has no host", ErrOriginResolution)
	}
	u, err := url.Parse(scheme + "://" + host)
	if err != nil || u.Host != host || u.Hostname() == "" {
		return "", fmt.Errorf("%w: invalid host %q", ErrOriginResolution, host)
	}
	return scheme + "://" + host, nil
}

func (l *Lifecycle) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	run := l.callback.Start()

	token, created, err := l.authorize(ctx, r, run)
	if err != nil {
		_ = run.Fire(ctx, EventReject)
		_, code := Classify(err)
		l.metrics.RecordCallback(l.Provider(), code, time.Since(start))
		l.fail(ctx, w, err)
		return
	}

	status, outcome := http.StatusOK, "login"
	if created {
		status, outcome = http.StatusCreated, "signup"
	}
	_ = run.Fire(ctx, EventIssue)
	l.metrics.RecordCallback(l.Provider(), outcome, time.Since(start))
	l.logger.InfoContext(ctx, "user authenticated",
		logger.Outcome(outcome),
		logger.Duration(time.Since(start)),
	)

	if err := writeJSON(w, status, newTokenResponse(token)); err != nil {
		l.logger.ErrorContext(ctx, "failed to write token response", logger.Error(err))
	}
}

// authorize runs the callback up to the decision. created reports that the
// user was signed up during this request.
func (l *Lifecycle) authorize(ctx context.Context, r *http.Request, run *statemachine.Run) (token string, created bool, err error) {
	tok, err := l.capability.AuthorizeAccessToken(ctx, r)
	if err != nil {
		return "", false, err
	}
	if err := run.Fire(ctx, EventCallback); err != nil {
		return "", false, err
	}

	raw, err := l.userInfo(ctx, tok)
	if err != nil {
		return "", false, err
	}
	ident, err := l.method.Normalize(raw)
	if err != nil {
		return "", false, err
	}
	if err := run.Fire(ctx, EventNormalize); err != nil {
		return "", false, err
	}

	token, created, err = l.decide(ctx, ident)
	if err != nil {
		return "", false, err
	}
	if err := run.Fire(ctx, EventDecide); err != nil {
		return "", false, err
	}
	return token, created, nil
}

func (l *Lifecycle) userInfo(ctx context.Context, tok *oauth.Token) (map[string]any, error) {
	start := time.Now()
	raw, err := l.method.UserInfo(ctx, l.capability, tok)
	l.metrics.RecordUserInfoFetch(l.Provider(), err == nil, time.Since(start))
	return raw, err
}

// decide asks the application to log the user in, signing it up first when
// the first attempt yields no token. Signup runs at most once.
func (l *Lifecycle) decide(ctx context.Context, ident identity.Identity) (string, bool, error) {
	token, ok, err := l.logic.Login(ctx, ident.Clone())
	if err != nil {
		return "", false, fmt.Errorf("%w: login: %w", ErrAuthLogic, err)
	}
	if ok && token != "" {
		return token, false, nil
	}

	if err := l.logic.Signup(ctx, ident.Clone()); err != nil {
		return "", false, fmt.Errorf("%w: signup: %w", ErrAuthLogic, err)
	}

	token, ok, err = l.logic.Login(ctx, ident.Clone())
	if err != nil {
		return "", false, fmt.Errorf("%w: login after signup: %w", ErrAuthLogic, err)
	}
	if !ok || token == "" {
		return "", false, fmt.Errorf("%w: %s: login yielded no token after signup", ErrLoginAfterSignup, l.Provider())
	}
	return token, true, nil
}

func (l *Lifecycle) fail(ctx context.Context, w http.ResponseWriter, err error) {
	status, body := newErrorResponse(err)

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	l.logger.Log(ctx, level, "login flow failed",
		logger.Outcome(body.Error.Code),
		logger.Status(status),
		logger.Error(err),
	)

	if werr := writeJSON(w, status, body); werr != nil {
		l.logger.ErrorContext(ctx, "failed to write error response", logger.Error(werr))
	}
}

func (l *Lifecycle) trace(ctx context.Context, from, to statemachine.State, event statemachine.Event) error {
	l.logger.DebugContext(ctx, "lifecycle transition",
		logger.Event(string(event)),
		slog.String("from", string(from)),
		slog.String("to", string(to)),
	)
	return nil
}

func normalizePrefix(prefix string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return ""
	}
	return "/" + prefix
}

func firstHeaderValue(v string) string {
	if i := strings.IndexByte(v, ','); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(v)
}
