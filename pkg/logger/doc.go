// Package logger builds *slog.Logger instances with functional options and
// keeps attribute names consistent across the module.
//
// New returns a JSON or text logger whose handler is wrapped by a decorator
// that pulls request-scoped values (for example the request id) out of the
// context on every record:
//
//	log := logger.New(
//		logger.WithEnvironment("production", "oauthkit"),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "login redirect issued",
//		logger.Component("authmethod"),
//		logger.Provider("github"),
//	)
//
// Config mirrors the options for environment-driven setup and is loaded with
// the config package.
package logger
