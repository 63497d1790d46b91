package jwt_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/oauthkit/pkg/jwt"
)

const testKey = "0123456789abcdef0123456789abcdef"

func newService(t *testing.T, opts ...jwt.Option) *jwt.Service {
	t.Helper()
	svc, err := jwt.NewFromString(testKey, opts...)
	require.NoError(t, err)
	return svc
}

func TestNew(t *testing.T) {
	t.Parallel()
	_, err := jwt.New(nil)
	assert.ErrorIs(t, err, jwt.ErrMissingSigningKey)
}

func TestService_GenerateParse(t *testing.T) {
	t.Parallel()
	svc := newService(t, jwt.WithIssuer("oauthkit"))

	token, err := svc.Generate(&jwt.Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email:    "alice@example.com",
		Provider: "google",
	})
	require.NoError(t, err)

	var claims jwt.Claims
	require.NoError(t, svc.Parse(token, &claims))
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "oauthkit", claims.Issuer)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "google", claims.Provider)

	t.Run("map claims", func(t *testing.T) {
		t.Parallel()
		m := gojwt.MapClaims{}
		require.NoError(t, svc.Parse(token, m))
		assert.Equal(t, "user-1", m["sub"])
	})

	t.Run("wrong key", func(t *testing.T) {
		t.Parallel()
		other := newService(t)
		err := other.Parse(token, &jwt.Claims{})
		assert.ErrorIs(t, err, jwt.ErrInvalidSignature)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		t.Parallel()
		strict := newService(t, jwt.WithIssuer("someone-else"))
		err := strict.Parse(token, &jwt.Claims{})
		assert.ErrorIs(t, err, jwt.ErrInvalidClaims)
	})

	t.Run("garbage", func(t *testing.T) {
		t.Parallel()
		err := svc.Parse("not.a.token", &jwt.Claims{})
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("nil claims", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Generate(nil)
		assert.ErrorIs(t, err, jwt.ErrMissingClaims)
		assert.ErrorIs(t, svc.Parse(token, nil), jwt.ErrMissingClaims)
	})
}

func TestService_Expired(t *testing.T) {
	t.Parallel()
	svc := newService(t)

	token, err := svc.Generate(&jwt.Claims{RegisteredClaims: gojwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: gojwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Parse(token, &jwt.Claims{}), jwt.ErrExpiredToken)
	assert.NoError(t, newService(t, jwt.WithLeeway(2*time.Minute)).Parse(token, &jwt.Claims{}))
}

func TestService_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()
	svc := newService(t)

	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS512, gojwt.MapClaims{"sub": "x"}).SignedString([]byte(testKey))
	require.NoError(t, err)

	err = svc.Parse(token, &jwt.Claims{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, jwt.ErrExpiredToken)
}

func TestMiddleware(t *testing.T) {
	t.Parallel()
	svc := newService(t)
	token, err := svc.Generate(&jwt.Claims{RegisteredClaims: gojwt.RegisteredClaims{Subject: "user-9"}})
	require.NoError(t, err)

	handler := jwt.Middleware(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := jwt.GetClaims(r.Context())
		require.True(t, ok)
		raw, ok := jwt.GetToken(r.Context())
		require.True(t, ok)
		assert.Equal(t, token, raw)
		_, _ = w.Write([]byte(claims.Subject))
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer " + token, http.StatusOK},
		{"lowercase scheme", "bearer " + token, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "user-9", rec.Body.String())
			}
		})
	}
}
