// Package authmethod drives the per-provider login lifecycle.
//
// Install wires one provider into a router. It loads the provider's setting
// from the oauth.Registry, lets the provider variant derive the endpoints
// that cannot be configured statically, registers the result, scopes an
// Authenticator to the "login" and "authorize" URLs and installs two GET
// routes:
//
//	GET /<provider>/login      redirects to the provider
//	GET /<provider>/authorize  handles the callback
//
// The callback exchanges the code for a token, fetches or reads the raw
// userinfo payload, normalizes it into an identity.Identity and hands it to
// the application's AuthLogic. An existing user gets 200 with
// {"access_token", "token_type": "bearer"}. A user that had to be signed up
// first gets 201 with the same body. Failures are written as
// {"error": {"code", "message", "hint", "uri"}} with the status returned by
// Classify.
//
// Supported variants are Google, GitHub, Zoom, Okta and Twitter. ForName
// selects one by provider name:
//
//	m, err := authmethod.ForName("github")
//	if err != nil {
//		return err
//	}
//	lc, err := authmethod.Install(router, registry, m, logic,
//		authmethod.WithPrefix("/auth"),
//		authmethod.WithLogger(log),
//	)
package authmethod
