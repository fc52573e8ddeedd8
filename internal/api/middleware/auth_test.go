package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Vidora/internal/auth"
)

func newTestAuth() (*AuthMiddleware, *auth.TokenManager) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return NewAuthMiddleware(tokens, nil), tokens
}

func TestRequireAuth_ValidToken(t *testing.T) {
	m, tokens := newTestAuth()
	token, err := tokens.Issue("user-1")
	require.NoError(t, err)

	var seen string
	handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetUserID(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", seen)
}

func TestRequireAuth_Rejects(t *testing.T) {
	m, _ := newTestAuth()
	other := auth.NewTokenManager("other-secret", time.Hour)
	forged, err := other.Issue("user-1")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"empty bearer", "Bearer "},
		{"garbage", "Bearer not-a-jwt"},
		{"wrong secret", "Bearer " + forged},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.False(t, called)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "AuthenticationRequired")
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	m, tokens := newTestAuth()
	token, err := tokens.Issue("user-2")
	require.NoError(t, err)

	var seen string
	handler := m.OptionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetUserID(r)
	}))

	for header, want := range map[string]string{
		"":                "",
		"Bearer invalid":  "",
		"Bearer " + token: "user-2",
	} {
		seen = "unset"
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, want, seen)
	}
}

func TestSetTestUserID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(SetTestUserID(req.Context(), "u"))
	assert.Equal(t, "u", GetUserID(req))
}

type fakeAccounts struct {
	err    error
	exists map[string]bool
}

func (f fakeAccounts) Exists(ctx context.Context, userID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.exists[userID], nil
}

func TestRequireAuth_AccountChecker(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	live, err := tokens.Issue("live-user")
	require.NoError(t, err)
	deleted, err := tokens.Issue("deleted-user")
	require.NoError(t, err)

	tests := []struct {
		name       string
		accounts   fakeAccounts
		token      string
		wantStatus int
		wantCalled bool
	}{
		{"existing account", fakeAccounts{exists: map[string]bool{"live-user": true}}, live, http.StatusOK, true},
		{"deleted account", fakeAccounts{exists: map[string]bool{"live-user": true}}, deleted, http.StatusUnauthorized, false},
		{"lookup failure", fakeAccounts{err: errors.New("db down")}, live, http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewAuthMiddleware(tokens, nil, WithAccountChecker(tt.accounts))
			called := false
			handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodPost, "/api/videos/v1/like", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCalled, called)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Contains(t, w.Body.String(), "Account no longer exists")
			}
		})
	}
}
