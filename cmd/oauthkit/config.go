package main

import (
	"fmt"
	"time"

	"github.com/dmitrymomot/oauthkit/pkg/config"
	"github.com/dmitrymomot/oauthkit/pkg/oauth"
)

type appConfig struct {
	Secret     string        `env:"APP_SECRET,required"`
	Prefix     string        `env:"APP_PREFIX" envDefault:"/auth"`
	Providers  []string      `env:"OAUTH_PROVIDERS" envSeparator:","`
	TrustProxy bool          `env:"APP_TRUST_PROXY" envDefault:"false"`
	TokenTTL   time.Duration `env:"APP_TOKEN_TTL" envDefault:"1h"`
	Issuer     string        `env:"APP_ISSUER" envDefault:"oauthkit"`
}

// loadProviders reads the provider file when one is given and falls back to
// OAUTH_<NAME>_* variables for the names in OAUTH_PROVIDERS.
func loadProviders(path string, names []string) ([]oauth.Setting, error) {
	if path != "" {
		return config.LoadProviders(path)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no providers configured: pass --config or set OAUTH_PROVIDERS")
	}
	return config.ProvidersFromEnv(names...)
}
