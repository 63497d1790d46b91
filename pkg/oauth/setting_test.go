package oauth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/dmitrymomot/oauthkit/pkg/oauth"
)

func TestSetting_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		setting oauth.Setting
		wantErr bool
	}{
		{name: "explicit endpoints", setting: githubSetting()},
		{
			name: "metadata only",
			setting: oauth.Setting{
				Name: "google", ClientID: "id", ClientSecret: "secret",
				ServerMetadataURL: "https://accounts.google.com/.well-known/openid-configuration",
			},
		},
		{
			name: "relative endpoints with api base",
			setting: oauth.Setting{
				Name: "custom", ClientID: "id", ClientSecret: "secret",
				APIBaseURL: "https://id.example.com/", AuthorizeURL: "authorize", AccessTokenURL: "token",
			},
		},
		{
			name: "oauth1",
			setting: oauth.Setting{
				Name: "twitter", ClientID: "id", ClientSecret: "secret",
				APIBaseURL:      "https://api.twitter.com/1.1/",
				RequestTokenURL: "https://api.twitter.com/oauth/request_token",
				AuthorizeURL:    "https://api.twitter.com/oauth/authenticate",
				AccessTokenURL:  "https://api.twitter.com/oauth/access_token",
			},
		},
		{name: "missing name", setting: oauth.Setting{ClientID: "id", ClientSecret: "secret"}, wantErr: true},
		{name: "missing secret", setting: oauth.Setting{Name: "x", ClientID: "id"}, wantErr: true},
		{
			name:    "no endpoint source",
			setting: oauth.Setting{Name: "x", ClientID: "id", ClientSecret: "secret", APIBaseURL: "https://api.example.com"},
			wantErr: true,
		},
		{
			name: "relative endpoints without api base",
			setting: oauth.Setting{
				Name: "x", ClientID: "id", ClientSecret: "secret",
				AuthorizeURL: "authorize", AccessTokenURL: "token",
			},
			wantErr: true,
		},
		{
			name: "openid scope without metadata",
			setting: oauth.Setting{
				Name: "google", ClientID: "id", ClientSecret: "secret",
				AuthorizeURL:   "https://accounts.google.com/o/oauth2/v2/auth",
				AccessTokenURL: "https://oauth2.googleapis.com/token",
				ClientKwargs:   map[string]any{"scope": "openid email"},
			},
			wantErr: true,
		},
		{
			name: "oauth1 without access token url",
			setting: oauth.Setting{
				Name: "twitter", ClientID: "id", ClientSecret: "secret",
				RequestTokenURL: "https://api.twitter.com/oauth/request_token",
				AuthorizeURL:    "https://api.twitter.com/oauth/authenticate",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.setting.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, oauth.ErrConfiguration)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSetting_Kwargs(t *testing.T) {
	t.Parallel()

	s := oauth.Setting{Name: "x"}
	assert.Nil(t, s.Scopes())
	assert.Equal(t, oauth2.AuthStyleAutoDetect, s.AuthStyle())
	assert.False(t, s.UsePKCE())

	s.SetKwarg("scope", "openid  email profile")
	s.SetKwarg("token_endpoint_auth_method", "client_secret_basic")
	s.SetKwarg("code_challenge_method", "s256")
	assert.Equal(t, []string{"openid", "email", "profile"}, s.Scopes())
	assert.True(t, s.HasScope("openid"))
	assert.Equal(t, oauth2.AuthStyleInHeader, s.AuthStyle())
	assert.True(t, s.UsePKCE())

	s.SetKwarg("scope", []any{"read:user", "user:email", 3})
	assert.Equal(t, []string{"read:user", "user:email"}, s.Scopes())
}

func TestSetting_CloneAndEqual(t *testing.T) {
	t.Parallel()

	s := githubSetting()
	s.AuthorizeParams = map[string]string{"allow_signup": "false"}

	clone := s.Clone()
	require.True(t, s.Equal(clone))

	clone.AuthorizeParams["allow_signup"] = "true"
	clone.ClientKwargs["scope"] = "repo"
	assert.Equal(t, "false", s.AuthorizeParams["allow_signup"])
	assert.Equal(t, "user:email", s.ClientKwargs["scope"])
	assert.False(t, s.Equal(clone))

	empty := githubSetting()
	empty.AccessTokenParams = map[string]string{}
	assert.True(t, githubSetting().Equal(empty), "nil and empty maps are equal")
}

func TestSetting_ResolveURL(t *testing.T) {
	t.Parallel()

	s := oauth.Setting{Name: "github", APIBaseURL: "https://api.github.com/"}

	got, err := s.ResolveURL("user")
	require.NoError(t, err)
	assert.Equal(t, "https://api.github.com/user", got)

	got, err = s.ResolveURL("https://example.com/userinfo")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/userinfo", got)

	_, err = oauth.Setting{Name: "x"}.ResolveURL("user")
	assert.ErrorIs(t, err, oauth.ErrConfiguration)
}
