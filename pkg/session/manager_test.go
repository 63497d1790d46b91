package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/oauthkit/pkg/cookie"
	"github.com/dmitrymomot/oauthkit/pkg/session"
)

func setupManager(t *testing.T, opts ...session.Option) *session.Manager {
	t.Helper()
	cookieMgr, err := cookie.New([]string{"test-secret-key-that-is-long-enough"})
	require.NoError(t, err)

	cfg := session.DefaultConfig()
	cfg.CookieName = "test-sid"
	cfg.CleanupInterval = 0

	m, err := session.NewFromConfig(cfg, append([]session.Option{session.WithCookieManager(cookieMgr)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func withCookies(rec *httptest.ResponseRecorder) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := session.New()
	assert.ErrorIs(t, err, session.ErrNoCookieManager)
}

func TestManager_Ensure(t *testing.T) {
	t.Parallel()
	manager := setupManager(t)
	ctx := context.Background()

	w1 := httptest.NewRecorder()
	sess1, err := manager.Ensure(ctx, w1, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.NotEmpty(t, sess1.Token)

	cookies := w1.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "test-sid", cookies[0].Name)
	assert.Equal(t, int((10 * time.Minute).Seconds()), cookies[0].MaxAge)

	sess2, err := manager.Ensure(ctx, httptest.NewRecorder(), withCookies(w1))
	require.NoError(t, err)
	assert.Equal(t, sess1.ID, sess2.ID)

	t.Run("unreadable cookie yields a new session", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "test-sid", Value: "garbage"})
		sess, err := manager.Ensure(ctx, httptest.NewRecorder(), r)
		require.NoError(t, err)
		assert.NotEqual(t, sess1.ID, sess.ID)
	})
}

func TestManager_SetPop(t *testing.T) {
	t.Parallel()
	manager := setupManager(t)
	ctx := context.Background()

	w := httptest.NewRecorder()
	require.NoError(t, manager.Set(ctx, w, httptest.NewRequest(http.MethodGet, "/", nil), "_state_github_xyz", "payload"))

	r := withCookies(w)
	v, err := manager.Value(ctx, r, "_state_github_xyz")
	require.NoError(t, err)
	assert.Equal(t, "payload", v)

	v, err = manager.Pop(ctx, r, "_state_github_xyz")
	require.NoError(t, err)
	assert.Equal(t, "payload", v)

	_, err = manager.Pop(ctx, r, "_state_github_xyz")
	assert.ErrorIs(t, err, session.ErrKeyNotFound)

	_, err = manager.Pop(ctx, httptest.NewRequest(http.MethodGet, "/", nil), "_state_github_xyz")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestManager_Destroy(t *testing.T) {
	t.Parallel()
	manager := setupManager(t)
	ctx := context.Background()

	w := httptest.NewRecorder()
	require.NoError(t, manager.Set(ctx, w, httptest.NewRequest(http.MethodGet, "/", nil), "k", "v"))
	r := withCookies(w)

	dw := httptest.NewRecorder()
	require.NoError(t, manager.Destroy(ctx, dw, r))
	assert.Equal(t, -1, dw.Result().Cookies()[0].MaxAge)

	_, err := manager.Get(ctx, r)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestManager_Expiry(t *testing.T) {
	t.Parallel()
	manager := setupManager(t, session.WithTTL(30*time.Millisecond))
	ctx := context.Background()

	w := httptest.NewRecorder()
	require.NoError(t, manager.Set(ctx, w, httptest.NewRequest(http.MethodGet, "/", nil), "k", "v"))
	r := withCookies(w)

	assert.Eventually(t, func() bool {
		_, err := manager.Value(ctx, r, "k")
		return err != nil
	}, time.Second, 10*time.Millisecond)
}

func TestManager_SetRestartsLifetime(t *testing.T) {
	t.Parallel()
	manager := setupManager(t, session.WithTTL(400*time.Millisecond))
	ctx := context.Background()

	w := httptest.NewRecorder()
	require.NoError(t, manager.Set(ctx, w, httptest.NewRequest(http.MethodGet, "/", nil), "_state_google_a", "first"))

	time.Sleep(300 * time.Millisecond)
	w2 := httptest.NewRecorder()
	require.NoError(t, manager.Set(ctx, w2, withCookies(w), "_state_github_b", "second"))
	cookies := w2.Result().Cookies()
	require.Len(t, cookies, 1, "cookie lifetime is refreshed with the session")

	time.Sleep(200 * time.Millisecond)
	v, err := manager.Pop(ctx, withCookies(w2), "_state_github_b")
	require.NoError(t, err, "state written late in the session keeps a full ttl")
	assert.Equal(t, "second", v)
}

func TestManager_Middleware(t *testing.T) {
	t.Parallel()
	manager := setupManager(t)

	var first, second string
	handler := manager.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		require.NoError(t, manager.Set(ctx, w, r, "a", "1"))
		require.NoError(t, manager.Set(ctx, w, r, "b", "2"))

		s, ok := session.FromContext(ctx)
		require.True(t, ok)
		first = s.Token
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	// both writes landed in a single session
	require.Len(t, rec.Result().Cookies(), 1)

	check := manager.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := session.FromContext(r.Context())
		require.True(t, ok)
		second = s.Token
		a, _ := s.GetString("a")
		b, _ := s.GetString("b")
		assert.Equal(t, "1", a)
		assert.Equal(t, "2", b)
	}))
	check.ServeHTTP(httptest.NewRecorder(), withCookies(rec))

	assert.Equal(t, first, second)
}
