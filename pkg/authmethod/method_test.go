package authmethod_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/oauthkit/pkg/authmethod"
	"github.com/dmitrymomot/oauthkit/pkg/identity"
	"github.com/dmitrymomot/oauthkit/pkg/oauth"
)

func decode(t *testing.T, s string) map[string]any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var out map[string]any
	require.NoError(t, dec.Decode(&out))
	return out
}

// stubCapability answers every Get with body and records the requested paths.
type stubCapability struct {
	meta  *oidc.ProviderConfig
	body  string
	paths []string
}

func (s *stubCapability) AuthorizeRedirect(http.ResponseWriter, *http.Request, string) error {
	return nil
}

func (s *stubCapability) AuthorizeAccessToken(context.Context, *http.Request) (*oauth.Token, error) {
	return &oauth.Token{}, nil
}

func (s *stubCapability) Get(_ context.Context, path string, _ *oauth.Token, _ url.Values) (*http.Response, error) {
	s.paths = append(s.paths, path)
	return &http.Response{
		StatusCode: http.StatusOK,
		Status:     "200 OK",
		Body:       io.NopCloser(strings.NewReader(s.body)),
	}, nil
}

// metadataCapability also exposes a provider metadata document.
type metadataCapability struct {
	stubCapability
}

func (m *metadataCapability) Metadata(context.Context) (*oidc.ProviderConfig, error) {
	return m.meta, nil
}

func TestForName(t *testing.T) {
	t.Parallel()

	for _, name := range authmethod.Names() {
		m, err := authmethod.ForName(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, m.Name())
	}

	m, err := authmethod.ForName("GitHub")
	require.NoError(t, err)
	assert.Equal(t, "github", m.Name())

	_, err = authmethod.ForName("myspace")
	assert.ErrorIs(t, err, oauth.ErrUnknownProvider)
}

func TestConfigure(t *testing.T) {
	t.Parallel()

	t.Run("okta derives endpoints from the base url", func(t *testing.T) {
		t.Parallel()
		s := oauth.Setting{Name: "okta", APIBaseURL: "https://dev-1.okta.com/oauth2/default/"}

		require.NoError(t, authmethod.Okta{}.Configure(&s))
		assert.Equal(t, "https://dev-1.okta.com/oauth2/default/oauth/token", s.AccessTokenURL)
		assert.Equal(t, "https://dev-1.okta.com/oauth2/default/authorize", s.AuthorizeURL)
		assert.Equal(t, "https://dev-1.okta.com/oauth2/default/.well-known/openid-configuration", s.ServerMetadataURL)
		assert.True(t, s.HasScope("openid"))
	})

	t.Run("okta rejects a relative base url", func(t *testing.T) {
		t.Parallel()
		s := oauth.Setting{Name: "okta", APIBaseURL: "dev-1.okta.com"}
		assert.ErrorIs(t, authmethod.Okta{}.Configure(&s), oauth.ErrConfiguration)
	})

	t.Run("twitter speaks oauth1", func(t *testing.T) {
		t.Parallel()
		s := oauth.Setting{Name: "twitter"}

		require.NoError(t, authmethod.Twitter{}.Configure(&s))
		assert.Equal(t, oauth.OAuth1, s.Protocol())
		assert.Equal(t, "https://api.twitter.com/1.1/", s.APIBaseURL)
		assert.Equal(t, "https://api.twitter.com/oauth/authenticate", s.AuthorizeURL)
	})

	t.Run("github uses header client auth", func(t *testing.T) {
		t.Parallel()
		s := oauth.Setting{Name: "github", AuthorizeURL: "https://ghe.example.com/login/oauth/authorize"}

		require.NoError(t, authmethod.GitHub{}.Configure(&s))
		assert.Equal(t, "https://ghe.example.com/login/oauth/authorize", s.AuthorizeURL, "explicit urls win")
		assert.Equal(t, "https://github.com/login/oauth/access_token", s.AccessTokenURL)
		assert.Equal(t, "client_secret_basic", s.Kwarg(oauth.KwargTokenEndpointAuthMethod))
		assert.Equal(t, "header", s.Kwarg(oauth.KwargTokenPlacement))
	})

	t.Run("google keeps discovery with explicit endpoints", func(t *testing.T) {
		t.Parallel()
		s := oauth.Setting{
			Name: "google", ClientID: "id", ClientSecret: "secret",
			AuthorizeURL:   "https://accounts.google.com/o/oauth2/v2/auth",
			AccessTokenURL: "https://oauth2.googleapis.com/token",
		}

		require.NoError(t, authmethod.Google{}.Configure(&s))
		assert.Equal(t, "https://accounts.google.com/.well-known/openid-configuration", s.ServerMetadataURL)
		assert.True(t, s.HasScope("openid"))
		assert.NoError(t, s.Validate(), "id tokens can be verified")
	})

	t.Run("okta api paths stay under the authorization server", func(t *testing.T) {
		t.Parallel()
		s := oauth.Setting{Name: "okta", APIBaseURL: "https://x.okta.com/oauth2/default"}

		require.NoError(t, authmethod.Okta{}.Configure(&s))
		got, err := s.ResolveURL("v1/userinfo")
		require.NoError(t, err)
		assert.Equal(t, "https://x.okta.com/oauth2/default/v1/userinfo", got)
	})

	t.Run("google keeps configured scopes", func(t *testing.T) {
		t.Parallel()
		s := oauth.Setting{Name: "google", ClientKwargs: map[string]any{"scope": "openid email"}}

		require.NoError(t, authmethod.Google{}.Configure(&s))
		assert.Equal(t, []string{"openid", "email"}, s.Scopes())
		assert.NotEmpty(t, s.ServerMetadataURL)
	})
}

func TestGitHubNormalize(t *testing.T) {
	t.Parallel()

	t.Run("maps the user document", func(t *testing.T) {
		t.Parallel()
		raw := decode(t, `{
			"id": 9007199254740993,
			"node_id": "MDQ6VXNlcjE=",
			"login": "octocat",
			"name": "Mona Octocat",
			"company": "GitHub",
			"location": "San Francisco",
			"email": "octocat@github.com",
			"avatar_url": "https://avatars.githubusercontent.com/u/1",
			"html_url": "https://github.com/octocat",
			"updated_at": "2024-01-01T00:00:00Z",
			"public_repos": 8,
			"hireable": null
		}`)

		ident, err := authmethod.GitHub{}.Normalize(raw)
		require.NoError(t, err)

		assert.Equal(t, "9007199254740993", ident.Subject)
		assert.Equal(t, "octocat", ident.DisplayName)
		assert.Equal(t, "Mona", ident.GivenName)
		assert.Equal(t, "Octocat", ident.FamilyName)
		assert.Equal(t, "Mona Octocat", ident.Nickname)
		assert.Equal(t, "GitHub", ident.MiddleName)
		assert.Equal(t, "MDQ6VXNlcjE=", ident.PreferredUsername)
		assert.Equal(t, "https://github.com/octocat", ident.ProfileURL)
		assert.Equal(t, "https://github.com/octocat", ident.Website)
		assert.True(t, ident.EmailVerified.Truthy())
		assert.Equal(t, map[string]any{"public_repos": json.Number("8"), "hireable": nil}, ident.Extra)
	})

	t.Run("single word name", func(t *testing.T) {
		t.Parallel()
		raw := map[string]any{"id": "1", "login": "madonna", "name": "Madonna", "email": "m@example.com"}

		_, err := authmethod.GitHub{}.Normalize(raw)
		require.ErrorIs(t, err, authmethod.ErrIdentityIncomplete)

		var incomplete *identity.IncompleteError
		require.True(t, errors.As(err, &incomplete))
		assert.Equal(t, "name", incomplete.Field)
		assert.Contains(t, incomplete.Reason, "Madonna")
	})

	t.Run("double space in name", func(t *testing.T) {
		t.Parallel()
		raw := map[string]any{"id": "1", "name": "Mona  Octocat", "email": "m@example.com"}
		_, err := authmethod.GitHub{}.Normalize(raw)
		assert.ErrorIs(t, err, identity.ErrIncomplete)
	})

	t.Run("missing email", func(t *testing.T) {
		t.Parallel()
		raw := map[string]any{"id": "1", "name": "Mona Octocat", "html_url": "https://github.com/octocat"}

		_, err := authmethod.GitHub{}.Normalize(raw)
		var incomplete *identity.IncompleteError
		require.True(t, errors.As(err, &incomplete))
		assert.Equal(t, "email", incomplete.Field)
		assert.NotEmpty(t, incomplete.Hint)
		assert.Equal(t, "https://github.com/octocat", incomplete.URI)
	})
}

func TestZoomNormalize(t *testing.T) {
	t.Parallel()

	raw := decode(t, `{
		"id": "KDcuGIm1QgePTO8WbOqwIQ",
		"first_name": "Jill",
		"last_name": "Chill",
		"display_name": "Jill Chill",
		"email": "jchill@example.com",
		"timezone": "America/Denver",
		"verified": 1,
		"pic_url": "https://example.com/photo.jpg",
		"phone_number": "+1 800000000",
		"location": "Paris",
		"last_login_time": "2019-06-01T19:49:27Z",
		"account_id": "q6gBJVO5TzexKYTb_I2rpg",
		"dept": "Developers"
	}`)

	ident, err := authmethod.Zoom{}.Normalize(raw)
	require.NoError(t, err)

	assert.Equal(t, "Jill Chill", ident.DisplayName)
	assert.Equal(t, "Jill Chill", ident.PreferredUsername)
	assert.Equal(t, "Paris", ident.Address)
	assert.Equal(t, "Paris", ident.Locale)
	assert.Equal(t, "America/Denver", ident.Timezone)

	n, ok := ident.EmailVerified.AsInt()
	assert.True(t, ok, "integer flag keeps its representation")
	assert.Equal(t, int64(1), n)
	assert.Equal(t, ident.EmailVerified, ident.PhoneNumberVerified)

	assert.Equal(t, map[string]any{
		"account_id": "q6gBJVO5TzexKYTb_I2rpg",
		"dept":       "Developers",
	}, ident.Extra)
}

func TestTwitterNormalize(t *testing.T) {
	t.Parallel()

	t.Run("prefers id_str", func(t *testing.T) {
		t.Parallel()
		raw := decode(t, `{"id": 6253282, "id_str": "6253282", "name": "Twitter API", "screen_name": "TwitterAPI", "email": "api@example.com", "followers_count": 10}`)

		ident, err := authmethod.Twitter{}.Normalize(raw)
		require.NoError(t, err)
		assert.Equal(t, "6253282", ident.Subject)
		assert.Equal(t, "TwitterAPI", ident.PreferredUsername)
		assert.Equal(t, map[string]any{"id": json.Number("6253282"), "followers_count": json.Number("10")}, ident.Extra)
	})

	t.Run("falls back to numeric id", func(t *testing.T) {
		t.Parallel()
		raw := decode(t, `{"id": 42, "name": "N"}`)
		ident, err := authmethod.Twitter{}.Normalize(raw)
		require.NoError(t, err)
		assert.Equal(t, "42", ident.Subject)
		assert.Nil(t, ident.Extra)
	})

	t.Run("no id", func(t *testing.T) {
		t.Parallel()
		_, err := authmethod.Twitter{}.Normalize(map[string]any{"name": "N"})
		assert.ErrorIs(t, err, identity.ErrIncomplete)
	})
}

func TestOktaNormalize(t *testing.T) {
	t.Parallel()

	ident, err := authmethod.Okta{}.Normalize(map[string]any{
		"sub":            "00uid4BxXw6I6TV4m0g3",
		"name":           "John Doe",
		"email":          "john@example.com",
		"email_verified": "true",
		"ver":            json.Number("1"),
	})
	require.NoError(t, err)
	assert.Equal(t, "John Doe", ident.DisplayName)
	assert.Equal(t, "john@example.com", ident.Email)

	s, ok := ident.EmailVerified.AsString()
	assert.True(t, ok)
	assert.Equal(t, "true", s)
	assert.Equal(t, map[string]any{"ver": json.Number("1")}, ident.Extra)

	_, err = authmethod.Okta{}.Normalize(map[string]any{"name": "x"})
	assert.ErrorIs(t, err, identity.ErrIncomplete)
}

// Every normalizer must be pure and must keep each unmapped key verbatim.
func TestNormalizersPreservePayload(t *testing.T) {
	t.Parallel()

	payloads := map[string]string{
		"google":  `{"sub": "1", "name": "Ann Lee", "email": "a@example.com", "email_verified": true, "hd": "example.com", "address": {"country": "NO"}}`,
		"github":  `{"id": 1, "login": "ann", "name": "Ann Lee", "email": "a@example.com", "plan": {"name": "pro"}, "bio": null}`,
		"zoom":    `{"id": "z", "display_name": "Ann", "verified": "1", "role_name": "Owner", "group_ids": ["a", "b"]}`,
		"okta":    `{"sub": "o", "name": "Ann", "groups": ["admins"], "ver": 1}`,
		"twitter": `{"id_str": "7", "name": "Ann", "entities": {"url": {}}, "protected": false}`,
	}

	for name, body := range payloads {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			m, err := authmethod.ForName(name)
			require.NoError(t, err)

			raw := decode(t, body)
			first, err := m.Normalize(raw)
			require.NoError(t, err)
			second, err := m.Normalize(raw)
			require.NoError(t, err)
			assert.Equal(t, first, second, "normalization is idempotent")

			assert.NotEmpty(t, first.Extra)
			for k, v := range first.Extra {
				rv, ok := raw[k]
				require.True(t, ok, "extra key %q not in payload", k)
				assert.Equal(t, rv, v, "extra value for %q is verbatim", k)
			}
			assert.Equal(t, decode(t, body), raw, "payload is not modified")
		})
	}
}

func TestUserInfoEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("google uses the discovered userinfo endpoint", func(t *testing.T) {
		t.Parallel()
		c := &metadataCapability{stubCapability{
			meta: &oidc.ProviderConfig{UserInfoURL: "https://idp.example.com/userinfo"},
			body: `{"sub": "1"}`,
		}}

		raw, err := authmethod.Google{}.UserInfo(context.Background(), c, &oauth.Token{AccessToken: "a"})
		require.NoError(t, err)
		assert.Equal(t, "1", raw["sub"])
		assert.Equal(t, []string{"https://idp.example.com/userinfo"}, c.paths)
	})

	t.Run("google falls back without a document", func(t *testing.T) {
		t.Parallel()
		c := &stubCapability{body: `{"sub": "1"}`}

		_, err := authmethod.Google{}.UserInfo(context.Background(), c, &oauth.Token{AccessToken: "a"})
		require.NoError(t, err)
		assert.Equal(t, []string{"https://openidconnect.googleapis.com/v1/userinfo"}, c.paths)
	})

	t.Run("okta falls back to the relative v1 path", func(t *testing.T) {
		t.Parallel()
		c := &metadataCapability{stubCapability{body: `{"sub": "o"}`}}

		_, err := authmethod.Okta{}.UserInfo(context.Background(), c, &oauth.Token{AccessToken: "a"})
		require.NoError(t, err)
		assert.Equal(t, []string{"v1/userinfo"}, c.paths)
	})

	t.Run("id token claims win", func(t *testing.T) {
		t.Parallel()
		c := &stubCapability{}

		raw, err := authmethod.Okta{}.UserInfo(context.Background(), c, &oauth.Token{UserInfo: map[string]any{"sub": "o"}})
		require.NoError(t, err)
		assert.Equal(t, "o", raw["sub"])
		assert.Empty(t, c.paths)
	})
}
