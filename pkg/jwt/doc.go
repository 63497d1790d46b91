// Package jwt issues and verifies HS256-signed JSON Web Tokens on top of
// github.com/golang-jwt/jwt/v5, and provides middleware that puts verified
// claims into the request context.
//
//	svc, _ := jwt.New([]byte(secret), jwt.WithIssuer("oauthkit"))
//	token, _ := svc.Generate(jwt.Claims{
//		RegisteredClaims: gojwt.RegisteredClaims{Subject: userID},
//		Email:            email,
//	})
//
//	router.With(jwt.Middleware(svc)).Get("/me", handler)
package jwt
