package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/deepgram/intake/internal/config"
	"github.com/deepgram/intake/internal/services/session"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestExtractBearer(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "bearer", header: "Bearer sk-abc", want: "sk-abc"},
		{name: "lowercase scheme", header: "bearer sk-abc", want: "sk-abc"},
		{name: "other scheme", header: "Basic dXNlcg==", want: ""},
		{name: "no value", header: "Bearer", want: ""},
		{name: "missing", header: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, ExtractBearer(r))
		})
	}
}

func TestRequireAPIKey(t *testing.T) {
	var seen string
	handler := RequireAPIKey(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetAPIKey(r)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("POST", "/v1/sessions", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, seen)

	r := httptest.NewRequest("POST", "/v1/sessions", nil)
	r.Header.Set("Authorization", "Bearer sk-abc")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sk-abc", seen)
}

func TestRequireSession(t *testing.T) {
	restore := config.SetJWTSecret([]byte("test-secret"))
	defer restore()

	sessions := session.NewService(nil, time.Minute)
	token, err := sessions.IssueToken("session-1")
	require.NoError(t, err)

	var claims *session.SessionClaims
	router := mux.NewRouter()
	router.Handle("/v1/sessions/{id}", RequireSession(sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims = GetSessionClaims(r)
	})))

	tests := []struct {
		name string
		path string
		tok  string
		code int
	}{
		{name: "missing token", path: "/v1/sessions/session-1", code: http.StatusUnauthorized},
		{name: "bad token", path: "/v1/sessions/session-1", tok: "garbage", code: http.StatusUnauthorized},
		{name: "other session", path: "/v1/sessions/session-2", tok: token, code: http.StatusForbidden},
		{name: "matching session", path: "/v1/sessions/session-1", tok: token, code: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.path, nil)
			if tt.tok != "" {
				r.Header.Set(config.SessionTokenHeader, tt.tok)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, r)
			assert.Equal(t, tt.code, w.Code)
		})
	}

	require.NotNil(t, claims)
	assert.Equal(t, "session-1", claims.SessionID)
}

func TestRateLimit(t *testing.T) {
	t.Setenv("RATELIMIT_ENABLED", "true")
	t.Setenv("RATELIMIT_SESSION_CREATE", "2")

	handler := RateLimit("session_create")(okHandler)

	send := func(ip string) *httptest.ResponseRecorder {
		r := httptest.NewRequest("POST", "/v1/sessions", nil)
		r.RemoteAddr = ip + ":4321"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, send("10.0.0.1").Code)

	limited := send("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.NotEmpty(t, limited.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, send("10.0.0.2").Code)
}

func TestRateLimitDisabled(t *testing.T) {
	t.Setenv("RATELIMIT_ENABLED", "false")
	t.Setenv("RATELIMIT_SESSION_MESSAGE", "1")

	handler := RateLimit("session_message")(okHandler)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("POST", "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "192.0.2.7:5555"
	assert.Equal(t, "192.0.2.7", clientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", clientIP(r))
}
