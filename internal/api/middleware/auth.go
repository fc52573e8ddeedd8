package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"Vidora/internal/auth"
)

// Context keys for storing user information
type contextKey string

const UserIDKey contextKey = "user_id"

// TokenVerifier verifies bearer tokens
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// AccountChecker reports whether the account behind a token still exists
type AccountChecker interface {
	Exists(ctx context.Context, userID string) (bool, error)
}

// AuthMiddleware authenticates requests with the session bearer token
type AuthMiddleware struct {
	verifier TokenVerifier
	accounts AccountChecker
	logger   *slog.Logger
}

// AuthOption configures the middleware
type AuthOption func(*AuthMiddleware)

// WithAccountChecker makes RequireAuth reject tokens of deleted accounts
func WithAccountChecker(accounts AccountChecker) AuthOption {
	return func(m *AuthMiddleware) { m.accounts = accounts }
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(verifier TokenVerifier, logger *slog.Logger, opts ...AuthOption) *AuthMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	m := &AuthMiddleware{verifier: verifier, logger: logger}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RequireAuth ensures the request carries a valid token for an existing account
// and injects the user id. Returns 401 otherwise.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeAuthError(w, "Missing or malformed Authorization header")
			return
		}

		claims, err := m.verifier.Verify(token)
		if err != nil {
			m.logger.Warn("authentication failed",
				"ip", r.RemoteAddr, "method", r.Method, "path", r.URL.Path, "error", err)
			writeAuthError(w, "Invalid or expired token")
			return
		}

		if m.accounts != nil {
			exists, err := m.accounts.Exists(r.Context(), claims.UserID())
			if err != nil {
				m.logger.Error("failed to check account", "user_id", claims.UserID(), "error", err)
				writeJSONError(w, http.StatusInternalServerError, "InternalServerError", "An internal error occurred")
				return
			}
			if !exists {
				writeAuthError(w, "Account no longer exists")
				return
			}
		}

		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

// OptionalAuth injects the user id when a valid token is present and otherwise
// continues anonymously
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.verifier.Verify(token)
		if err != nil {
			m.logger.Debug("optional auth failed", "path", r.URL.Path, "error", err)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}

func withClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, UserIDKey, claims.UserID())
}

// GetUserID extracts the authenticated user's id from the request context.
// Returns empty string if not authenticated.
func GetUserID(r *http.Request) string {
	id, _ := r.Context().Value(UserIDKey).(string)
	return id
}

// SetTestUserID sets the user id in the context for testing purposes
// This function should ONLY be used in tests to mock authenticated users
func SetTestUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// writeAuthError writes a JSON error response for authentication failures
func writeAuthError(w http.ResponseWriter, message string) {
	writeJSONError(w, http.StatusUnauthorized, "AuthenticationRequired", message)
}

func writeJSONError(w http.ResponseWriter, status int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	response := `{"error":"` + errorType + `","message":"` + message + `"}`
	if _, err := w.Write([]byte(response)); err != nil {
		slog.Error("failed to write auth error response", "error", err)
	}
}
