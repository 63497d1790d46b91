package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/oauthkit"
	"github.com/dmitrymomot/oauthkit/pkg/config"
	"github.com/dmitrymomot/oauthkit/pkg/httpserver"
	"github.com/dmitrymomot/oauthkit/pkg/jwt"
	"github.com/dmitrymomot/oauthkit/pkg/logger"
	"github.com/dmitrymomot/oauthkit/pkg/metrics"
	"github.com/dmitrymomot/oauthkit/pkg/redis"
	"github.com/dmitrymomot/oauthkit/pkg/requestid"
	"github.com/dmitrymomot/oauthkit/pkg/session"
)

func newServeCmd() *cobra.Command {
	var providersFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the login HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), providersFile)
		},
	}
	cmd.Flags().StringVarP(&providersFile, "config", "c", "", "Provider settings file (YAML)")
	return cmd
}

func serve(ctx context.Context, providersFile string) error {
	var (
		appCfg     appConfig
		logCfg     logger.Config
		sessionCfg session.Config
		redisCfg   redis.Config
		httpCfg    httpserver.Config
		metricsCfg metrics.Config
	)
	for _, load := range []func() error{
		func() error { return config.Load(&appCfg) },
		func() error { return config.Load(&logCfg) },
		func() error { return config.Load(&sessionCfg) },
		func() error { return config.Load(&redisCfg) },
		func() error { return config.Load(&httpCfg) },
		func() error { return config.Load(&metricsCfg) },
	} {
		if err := load(); err != nil {
			return err
		}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	log := logger.New(append(logCfg.Options(),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)...)

	settings, err := loadProviders(providersFile, appCfg.Providers)
	if err != nil {
		return err
	}

	signer, err := jwt.NewFromString(appCfg.Secret, jwt.WithIssuer(appCfg.Issuer))
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	rec := metrics.Init(metricsCfg.Enabled, reg)

	r := chi.NewRouter()
	r.Use(requestid.Middleware)

	opts := []oauthkit.Option{
		oauthkit.WithPrefix(appCfg.Prefix),
		oauthkit.WithLogger(log),
		oauthkit.WithMetrics(rec),
		oauthkit.WithSessionConfig(sessionCfg),
		oauthkit.WithTrustForwardedHeaders(appCfg.TrustProxy),
	}

	var readiness []func(context.Context) error
	if redisCfg.Enabled() {
		client, err := redis.Connect(ctx, redisCfg, log)
		if err != nil {
			return err
		}
		defer client.Close()

		opts = append(opts, oauthkit.WithSessionStore(session.NewRedisStore(client, redisCfg.KeyPrefix)))
		readiness = append(readiness, redis.Healthcheck(client))
	}

	app, err := oauthkit.New(r, appCfg.Secret, opts...)
	if err != nil {
		return err
	}
	defer app.Close()

	users := newUserDirectory(signer, appCfg.TokenTTL)
	for _, s := range settings {
		if err := app.Use(users.forProvider(s.Name), s); err != nil {
			return err
		}
	}

	r.Get("/health/live", httpserver.HealthCheckHandler(log))
	r.Get("/health/ready", httpserver.HealthCheckHandler(log, readiness...))
	if metricsCfg.Enabled {
		r.Method(http.MethodGet, metricsCfg.Path, metrics.Handler(reg))
	}
	r.With(jwt.Middleware(signer)).Get("/me", meHandler)

	for _, name := range app.Providers() {
		loginURL, _ := app.LoginURL(name)
		log.Info("provider ready", logger.Provider(name), slog.String("login", loginURL))
	}

	return httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log)).Run(ctx, r)
}

func meHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := jwt.GetClaims(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":    claims.Subject,
		"email": claims.Email,
		"name":  claims.Name,
	})
}
