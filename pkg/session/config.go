package session

import "time"

// Config holds session configuration
type Config struct {
	// CookieName is the name of the session cookie
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"oauthkit_session"`

	// TTL bounds how long a session lives after creation
	TTL time.Duration `env:"SESSION_TTL" envDefault:"10m"`

	// CleanupInterval for the in-memory store janitor (0 to disable)
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"1m"`

	// SecureCookies enables the Secure flag on session cookies
	SecureCookies bool `env:"SESSION_SECURE_COOKIES" envDefault:"false"`
}

// DefaultConfig returns default session configuration
func DefaultConfig() Config {
	return Config{
		CookieName:      "oauthkit_session",
		TTL:             10 * time.Minute,
		CleanupInterval: time.Minute,
	}
}
