package session

import "errors"

var (
	// ErrSessionNotFound indicates no session was found
	ErrSessionNotFound = errors.New("session.not_found")

	// ErrSessionExpired indicates the session has expired
	ErrSessionExpired = errors.New("session.expired")

	// ErrKeyNotFound indicates the session has no value under the key
	ErrKeyNotFound = errors.New("session.key_not_found")

	// ErrInvalidSession indicates a malformed session was passed to a store
	ErrInvalidSession = errors.New("session.invalid")

	// ErrTokenGeneration indicates token generation failed
	ErrTokenGeneration = errors.New("session.token_generation_failed")

	// ErrNoCookieManager indicates the default cookie transport has no cookie manager
	ErrNoCookieManager = errors.New("session.no_cookie_manager")
)
