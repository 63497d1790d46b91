// Package oauthkit is a federated login core. It lets an application accept
// sign-in from several identity providers while its own code only deals with
// one normalized identity and one login/signup decision point.
//
// An App binds a chi router to the process-wide OAuth client and to the
// session that carries handshake state between the two legs of the flow:
//
//	r := chi.NewRouter()
//	app, err := oauthkit.New(r, os.Getenv("APP_SECRET"),
//		oauthkit.WithPrefix("/auth"),
//		oauthkit.WithLogger(log),
//	)
//	if err != nil {
//		return err
//	}
//	defer app.Close()
//
//	providers, err := config.LoadProviders("providers.yaml")
//	if err != nil {
//		return err
//	}
//	if err := app.Use(myLogic, providers...); err != nil {
//		return err
//	}
//
// Every provider gets two routes:
//
//	GET /auth/<provider>/login
//	GET /auth/<provider>/authorize
//
// The callback answers 200 for an existing user and 201 for a user signed up
// during the request, both with {"access_token": "...", "token_type": "bearer"}.
//
// myLogic implements authmethod.AuthLogic. The core never stores users.
//
// Sub-packages:
//
//   - pkg/oauth: provider settings, registry, authenticators and handshakes
//   - pkg/identity: the normalized identity and payload helpers
//   - pkg/authmethod: provider variants and the login lifecycle
//   - pkg/session, pkg/cookie: handshake state storage
//   - pkg/config, pkg/logger, pkg/metrics: ambient plumbing
package oauthkit
