package oauth

import (
	"fmt"
	"maps"
	"net/url"
	"reflect"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// Protocol is the OAuth flavor a provider speaks.
type Protocol string

const (
	OAuth1 Protocol = "oauth1"
	OAuth2 Protocol = "oauth2"
)

// Recognised ClientKwargs keys.
const (
	KwargScope                   = "scope"
	KwargTokenEndpointAuthMethod = "token_endpoint_auth_method"
	KwargCodeChallengeMethod     = "code_challenge_method"
	KwargTokenPlacement          = "token_placement"
)

// Setting is the static configuration of one identity provider.
// A Setting is treated as immutable once handed to a Registry; use Clone
// before patching it.
type Setting struct {
	Name              string            `yaml:"name" json:"name"`
	ClientID          string            `yaml:"client_id" json:"client_id"`
	ClientSecret      string            `yaml:"client_secret" json:"client_secret"`
	AuthorizeURL      string            `yaml:"authorize_url,omitempty" json:"authorize_url,omitempty"`
	AccessTokenURL    string            `yaml:"access_token_url,omitempty" json:"access_token_url,omitempty"`
	AccessTokenParams map[string]string `yaml:"access_token_params,omitempty" json:"access_token_params,omitempty"`
	AuthorizeParams   map[string]string `yaml:"authorize_params,omitempty" json:"authorize_params,omitempty"`
	APIBaseURL        string            `yaml:"api_base_url,omitempty" json:"api_base_url,omitempty"`
	RequestTokenURL   string            `yaml:"request_token_url,omitempty" json:"request_token_url,omitempty"`
	ServerMetadataURL string            `yaml:"server_metadata_url,omitempty" json:"server_metadata_url,omitempty"`
	ClientKwargs      map[string]any    `yaml:"client_kwargs,omitempty" json:"client_kwargs,omitempty"`
}

// Protocol reports OAuth1 when a request token URL is configured.
func (s Setting) Protocol() Protocol {
	if s.RequestTokenURL != "" {
		return OAuth1
	}
	return OAuth2
}

// Clone returns a deep copy of the setting.
func (s Setting) Clone() Setting {
	s.AccessTokenParams = maps.Clone(s.AccessTokenParams)
	s.AuthorizeParams = maps.Clone(s.AuthorizeParams)
	if s.ClientKwargs != nil {
		kw := make(map[string]any, len(s.ClientKwargs))
		for k, v := range s.ClientKwargs {
			if list, ok := v.([]any); ok {
				v = append([]any(nil), list...)
			}
			kw[k] = v
		}
		s.ClientKwargs = kw
	}
	return s
}

// Equal reports whether two settings describe the same provider configuration.
func (s Setting) Equal(o Setting) bool {
	return reflect.DeepEqual(s.normalized(), o.normalized())
}

// normalized drops the difference between nil and empty maps.
func (s Setting) normalized() Setting {
	if len(s.AccessTokenParams) == 0 {
		s.AccessTokenParams = nil
	}
	if len(s.AuthorizeParams) == 0 {
		s.AuthorizeParams = nil
	}
	if len(s.ClientKwargs) == 0 {
		s.ClientKwargs = nil
	}
	return s
}

// SetKwarg sets a client keyword argument, allocating the map if needed.
func (s *Setting) SetKwarg(key string, value any) {
	if s.ClientKwargs == nil {
		s.ClientKwargs = make(map[string]any)
	}
	s.ClientKwargs[key] = value
}

// Kwarg returns a client keyword argument rendered as a string.
func (s Setting) Kwarg(key string) string {
	v, ok := s.ClientKwargs[key]
	if !ok || v == nil {
		return ""
	}
	if str, ok := v.(string); ok {
		return str
	}
	return fmt.Sprint(v)
}

// Scopes returns the requested scopes from client_kwargs["scope"], which may be
// a space separated string or a list.
func (s Setting) Scopes() []string {
	switch v := s.ClientKwargs[KwargScope].(type) {
	case string:
		return strings.Fields(v)
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok && str != "" {
				out = append(out, str)
			}
		}
		return out
	default:
		return nil
	}
}

// HasScope reports whether scope is among the requested scopes.
func (s Setting) HasScope(scope string) bool {
	for _, sc := range s.Scopes() {
		if sc == scope {
			return true
		}
	}
	return false
}

// AuthStyle maps token_endpoint_auth_method onto the oauth2 client auth style.
func (s Setting) AuthStyle() oauth2.AuthStyle {
	switch s.Kwarg(KwargTokenEndpointAuthMethod) {
	case "client_secret_basic":
		return oauth2.AuthStyleInHeader
	case "client_secret_post":
		return oauth2.AuthStyleInParams
	default:
		return oauth2.AuthStyleAutoDetect
	}
}

// UsePKCE reports whether the authorization code flow must carry a S256 challenge.
func (s Setting) UsePKCE() bool {
	return strings.EqualFold(s.Kwarg(KwargCodeChallengeMethod), "S256")
}

// ResolveURL resolves ref against the API base URL. Absolute references are
// returned unchanged.
func (s Setting) ResolveURL(ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("%w: %s: empty url", ErrConfiguration, s.Name)
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrConfiguration, s.Name, err)
	}
	if u.IsAbs() {
		return u.String(), nil
	}
	if s.APIBaseURL == "" {
		return "", fmt.Errorf("%w: %s: relative url %q without api_base_url", ErrConfiguration, s.Name, ref)
	}
	base, err := url.Parse(s.APIBaseURL)
	if err != nil || !base.IsAbs() {
		return "", fmt.Errorf("%w: %s: invalid api_base_url %q", ErrConfiguration, s.Name, s.APIBaseURL)
	}
	return base.ResolveReference(u).String(), nil
}

// Validate checks that credentials are present and that the endpoints can be resolved.
func (s Setting) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: provider name is required", ErrConfiguration)
	}
	if s.ClientID == "" || s.ClientSecret == "" {
		return fmt.Errorf("%w: %s: client_id and client_secret are required", ErrConfiguration, s.Name)
	}

	if s.Protocol() == OAuth1 {
		for _, ref := range []string{s.RequestTokenURL, s.AuthorizeURL, s.AccessTokenURL} {
			if _, err := s.ResolveURL(ref); err != nil {
				return err
			}
		}
		return nil
	}

	if s.HasScope(oidc.ScopeOpenID) && s.ServerMetadataURL == "" {
		return fmt.Errorf("%w: %s: openid scope needs server_metadata_url to verify id tokens", ErrConfiguration, s.Name)
	}

	if s.ServerMetadataURL != "" {
		if _, err := url.ParseRequestURI(s.ServerMetadataURL); err != nil {
			return fmt.Errorf("%w: %s: invalid server_metadata_url: %v", ErrConfiguration, s.Name, err)
		}
		return nil
	}

	if s.AuthorizeURL == "" || s.AccessTokenURL == "" {
		return fmt.Errorf("%w: %s: authorize_url and access_token_url or server_metadata_url must be set", ErrConfiguration, s.Name)
	}
	if _, err := s.ResolveURL(s.AuthorizeURL); err != nil {
		return err
	}
	_, err := s.ResolveURL(s.AccessTokenURL)
	return err
}
