package redis

import "time"

type Config struct {
	// ConnectionURL in the form "redis://:password@localhost:6379/0". Empty disables Redis.
	ConnectionURL string `env:"REDIS_URL"`
	// KeyPrefix namespaces session keys.
	KeyPrefix      string        `env:"REDIS_KEY_PREFIX" envDefault:"oauthkit:session:"`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
}

// Enabled reports whether a connection URL is configured.
func (c Config) Enabled() bool {
	return c.ConnectionURL != ""
}
