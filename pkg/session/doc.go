// Package session keeps short-lived, per-client key/value state between
// requests.
//
// A session is identified by a random token carried in an encrypted cookie
// and persisted in a Store. The package ships an in-memory store backed by
// go-cache and a Redis store backed by go-redis. Both drop sessions once
// their TTL elapses, so abandoned state never accumulates.
//
// Manager exposes Set and Pop with the signatures of oauth.StateStore, which
// is how OAuth handshake state (CSRF state, PKCE verifier, OAuth1 request
// secret) survives the gap between the login redirect and the provider
// callback:
//
//	mgr, err := session.New(session.WithCookieManager(cookies))
//	router.Use(mgr.Middleware)
//	_ = mgr.Set(ctx, w, r, "key", "value")
//	v, err := mgr.Pop(ctx, r, "key")
package session
