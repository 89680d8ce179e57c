package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"agency-backend/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func testManager() *auth.Manager {
	return &auth.Manager{Secret: []byte("k"), AccessTTL: time.Minute, RefreshTTL: time.Hour, Issuer: "agency-backend"}
}

func serveAdmin(t *testing.T, h http.Handler, mutate func(*http.Request)) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/blog", nil)
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestAdminAuthBearerPassword(t *testing.T) {
	checker, err := auth.NewPasswordChecker("letmein", "")
	require.NoError(t, err)
	h := AdminAuth(checker, nil)(okHandler)

	assert.Equal(t, http.StatusNoContent, serveAdmin(t, h, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer letmein")
	}))
	assert.Equal(t, http.StatusUnauthorized, serveAdmin(t, h, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer nope")
	}))
	assert.Equal(t, http.StatusUnauthorized, serveAdmin(t, h, nil))
}

func TestAdminAuthBearerJWTAndCookie(t *testing.T) {
	m := testManager()
	token, err := m.NewAccessToken(auth.RoleAdmin)
	require.NoError(t, err)
	refresh, err := m.NewRefreshToken(auth.RoleAdmin)
	require.NoError(t, err)
	h := AdminAuth(nil, m)(okHandler)

	assert.Equal(t, http.StatusNoContent, serveAdmin(t, h, func(r *http.Request) {
		r.Header.Set("Authorization", "bearer "+token)
	}))
	assert.Equal(t, http.StatusNoContent, serveAdmin(t, h, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: AccessCookie, Value: token})
	}))
	assert.Equal(t, http.StatusUnauthorized, serveAdmin(t, h, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+refresh)
	}))
}

func TestAdminAuthNotConfigured(t *testing.T) {
	h := AdminAuth(nil, nil)(okHandler)
	assert.Equal(t, http.StatusServiceUnavailable, serveAdmin(t, h, nil))
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", BearerToken(req))
	req.Header.Set("Authorization", "Basic abc")
	assert.Equal(t, "", BearerToken(req))
	req.Header.Set("Authorization", "Bearer  pw ")
	assert.Equal(t, "pw", BearerToken(req))
}

func TestRequestIDEchoesInbound(t *testing.T) {
	var seen string
	h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, seen, 36)
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://site.example"})(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/api/blog", nil)
	req.Header.Set("Origin", "https://site.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://site.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "DELETE")

	req = httptest.NewRequest(http.MethodGet, "/api/blog", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimiterWritesOnly(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	h := rl.Middleware(okHandler)

	post := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/jobs", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusNoContent, post())
	assert.Equal(t, http.StatusNoContent, post())
	assert.Equal(t, http.StatusTooManyRequests, post())

	req := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRateLimiterWindowResets(t *testing.T) {
	rl := NewRateLimiter(1, time.Second)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("k"))
	assert.False(t, rl.Allow("k"))
	now = now.Add(time.Second)
	assert.True(t, rl.Allow("k"))
}
