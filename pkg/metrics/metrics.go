package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder receives lifecycle measurements from the login handlers.
type Recorder interface {
	RecordRedirect(provider string, success bool)
	RecordCallback(provider, outcome string, duration time.Duration)
	RecordUserInfoFetch(provider string, success bool, duration time.Duration)
}

// Config toggles the metrics endpoint.
type Config struct {
	Enabled bool   `env:"METRICS_ENABLED" envDefault:"false"`
	Path    string `env:"METRICS_PATH" envDefault:"/metrics"`
}

var _ Recorder = (*Metrics)(nil)

// Metrics holds the Prometheus collectors.
type Metrics struct {
	RedirectsTotal        *prometheus.CounterVec
	CallbacksTotal        *prometheus.CounterVec
	CallbackDuration      *prometheus.HistogramVec
	UserInfoFetchTotal    *prometheus.CounterVec
	UserInfoFetchDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RedirectsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oauthkit_login_redirects_total",
				Help: "Total number of login redirects issued to identity providers",
			},
			[]string{"provider", "result"}, // success, error
		),
		CallbacksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oauthkit_callbacks_total",
				Help: "Total number of provider callbacks by outcome",
			},
			[]string{"provider", "outcome"}, // login, signup, or an error kind
		),
		CallbackDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "oauthkit_callback_duration_seconds",
				Help:    "Time spent handling a provider callback",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
		UserInfoFetchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oauthkit_userinfo_fetch_total",
				Help: "Total number of userinfo requests to identity providers",
			},
			[]string{"provider", "result"},
		),
		UserInfoFetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "oauthkit_userinfo_fetch_duration_seconds",
				Help:    "Latency of userinfo requests to identity providers",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
	}
}

// Init returns Prometheus metrics registered on reg when enabled, and a no-op recorder otherwise.
func Init(enabled bool, reg prometheus.Registerer) Recorder {
	if !enabled {
		return NewNoop()
	}
	return New(reg)
}

func result(success bool) string {
	if success {
		return "success"
	}
	return "error"
}

func (m *Metrics) RecordRedirect(provider string, success bool) {
	m.RedirectsTotal.WithLabelValues(provider, result(success)).Inc()
}

func (m *Metrics) RecordCallback(provider, outcome string, duration time.Duration) {
	m.CallbacksTotal.WithLabelValues(provider, outcome).Inc()
	m.CallbackDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

func (m *Metrics) RecordUserInfoFetch(provider string, success bool, duration time.Duration) {
	m.UserInfoFetchTotal.WithLabelValues(provider, result(success)).Inc()
	m.UserInfoFetchDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// Handler exposes the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
