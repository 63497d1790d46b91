// Package oauth is the provider layer of the login core: provider settings, the
// registry that owns them, provider-scoped Authenticators and the handshake
// capabilities that talk OAuth 1.0a and OAuth 2.0 / OpenID Connect.
//
// A Client is created once per process with a StateStore that keeps handshake
// state (state parameter, PKCE verifier, nonce, OAuth1 request secret) between
// the login redirect and the callback:
//
//	client, err := oauth.NewClient(sessions)
//	registry, err := oauth.NewRegistry(client, settings...)
//	if err := registry.Register(setting); err != nil { ... }
//	auth, err := registry.Scope("github", "login", "authorize")
//	path, _ := auth.Resolve("login") // "/github/login"
//
// OAuth2 endpoints come from the explicit authorize and token URLs when set,
// otherwise from the document at ServerMetadataURL, which is fetched lazily and
// cached. Requesting the openid scope enables nonce and ID token verification;
// verified claims are returned in Token.UserInfo.
//
// Errors are sentinel values (ErrConfiguration, ErrUnknownProvider,
// ErrTokenExchange, ...) wrapped with context; test them with errors.Is.
package oauth
