// Package redis connects to Redis with bounded retries and exposes a
// healthcheck. The session package stores handshake state in the client it
// returns when REDIS_URL is configured.
package redis
