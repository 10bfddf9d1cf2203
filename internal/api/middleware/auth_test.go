package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mreid/group-session-website/internal/api/middleware"
	"github.com/mreid/group-session-website/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkipped(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/", true},
		{"/home", true},
		{"/home/about", true},
		{"/home/researchers", true},
		{"/health", true},
		{"/api/webhooks/identity", true},
		{"/join/abc123", true},
		{"/join/abc123/group", true},
		{"/api/v1/presence", true},
		{"/api/v1/users/active", false},
		{"/api/v1/sessions/abc123/participants", false},
		{"/home/other", false},
		{"/joinother", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, middleware.Skipped(tt.path))
		})
	}
}

func TestRequireAuth(t *testing.T) {
	provider := testutil.NewFakeIdentityProvider()

	var gotClerkID string
	handler := middleware.RequireAuth(provider)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClerkID, _ = middleware.GetClerkID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("protected route without token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/users/active", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("protected route with bearer token", func(t *testing.T) {
		token := testutil.SignSessionToken(t, "acct_123")
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/active", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "acct_123", gotClerkID)
	})

	t.Run("protected route with session cookie", func(t *testing.T) {
		token := testutil.SignSessionToken(t, "acct_cookie")
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/active", nil)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: token})

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "acct_cookie", gotClerkID)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/active", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("ignored route passes through untouched", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/join/abc123", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("public route passes through untouched", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/home", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
