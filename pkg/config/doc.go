// Package config loads process configuration from the environment and
// provider settings from a YAML file or prefixed environment variables.
//
// Struct configuration goes through Load, which reads an optional .env file
// once (github.com/joho/godotenv) and parses tagged structs with
// github.com/caarlos0/env/v11. Each struct type is parsed once and cached:
//
//	var cfg logger.Config
//	if err := config.Load(&cfg); err != nil { ... }
//
// Provider settings come from LoadProviders, which decodes a YAML document
// with gopkg.in/yaml.v3 after expanding ${VAR} references, or from
// ProviderFromEnv, which reads OAUTH_<NAME>_CLIENT_ID and friends:
//
//	providers:
//	  - name: github
//	    client_id: ${GITHUB_CLIENT_ID}
//	    client_secret: ${GITHUB_CLIENT_SECRET}
//	    client_kwargs:
//	      scope: user:email
package config
