package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/oauthkit/pkg/oauth"
)

// ProviderFile is the document read by LoadProviders.
type ProviderFile struct {
	Providers []oauth.Setting `yaml:"providers"`
}

// LoadProviders reads provider settings from a YAML file. ${VAR} and $VAR
// references are expanded from the environment before decoding.
func LoadProviders(path string) ([]oauth.Setting, error) {
	loadDotEnv()

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrProviderFile, err)
	}
	return ParseProviders([]byte(os.ExpandEnv(string(raw))))
}

// ParseProviders decodes an already expanded provider document.
func ParseProviders(data []byte) ([]oauth.Setting, error) {
	var file ProviderFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Join(ErrProviderFile, err)
	}

	seen := make(map[string]struct{}, len(file.Providers))
	for i, s := range file.Providers {
		if s.Name == "" {
			return nil, fmt.Errorf("%w: provider %d has no name", ErrProviderFile, i)
		}
		if _, ok := seen[s.Name]; ok {
			return nil, fmt.Errorf("%w: provider %q is listed twice", ErrProviderFile, s.Name)
		}
		seen[s.Name] = struct{}{}
	}
	return file.Providers, nil
}

// ProviderEnv is the environment shape of one provider, read with the prefix
// OAUTH_<NAME>_.
type ProviderEnv struct {
	ClientID          string            `env:"CLIENT_ID,required"`
	ClientSecret      string            `env:"CLIENT_SECRET,required"`
	AuthorizeURL      string            `env:"AUTHORIZE_URL"`
	AccessTokenURL    string            `env:"ACCESS_TOKEN_URL"`
	APIBaseURL        string            `env:"API_BASE_URL"`
	RequestTokenURL   string            `env:"REQUEST_TOKEN_URL"`
	ServerMetadataURL string            `env:"SERVER_METADATA_URL"`
	Scope             string            `env:"SCOPE"`
	AuthorizeParams   map[string]string `env:"AUTHORIZE_PARAMS"`
	AccessTokenParams map[string]string `env:"ACCESS_TOKEN_PARAMS"`
}

// Setting converts the environment values into a provider setting named name.
func (p ProviderEnv) Setting(name string) oauth.Setting {
	s := oauth.Setting{
		Name:              name,
		ClientID:          p.ClientID,
		ClientSecret:      p.ClientSecret,
		AuthorizeURL:      p.AuthorizeURL,
		AccessTokenURL:    p.AccessTokenURL,
		APIBaseURL:        p.APIBaseURL,
		RequestTokenURL:   p.RequestTokenURL,
		ServerMetadataURL: p.ServerMetadataURL,
		AuthorizeParams:   p.AuthorizeParams,
		AccessTokenParams: p.AccessTokenParams,
	}
	if p.Scope != "" {
		s.SetKwarg(oauth.KwargScope, p.Scope)
	}
	return s
}

// EnvPrefix returns the variable prefix for a provider name.
func EnvPrefix(name string) string {
	return "OAUTH_" + strings.ToUpper(name) + "_"
}

// ProviderFromEnv reads one provider setting from OAUTH_<NAME>_* variables.
func ProviderFromEnv(name string) (oauth.Setting, error) {
	loadDotEnv()

	var p ProviderEnv
	if err := env.ParseWithOptions(&p, env.Options{Prefix: EnvPrefix(name)}); err != nil {
		return oauth.Setting{}, errors.Join(ErrParsingConfig, err)
	}
	return p.Setting(name), nil
}

// ProvidersFromEnv reads the named providers from the environment.
func ProvidersFromEnv(names ...string) ([]oauth.Setting, error) {
	settings := make([]oauth.Setting, 0, len(names))
	for _, name := range names {
		s, err := ProviderFromEnv(strings.TrimSpace(name))
		if err != nil {
			return nil, fmt.Errorf("provider %s: %w", name, err)
		}
		settings = append(settings, s)
	}
	return settings, nil
}
