package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/hallboard/hallboard/internal/service"
)

type contextKeyAuth string

// IdentityKey is the context key for the authenticated admin identity.
const IdentityKey contextKeyAuth = "identity"

// TokenCookieName is the session cookie set on login and read here.
const TokenCookieName = "token"

// Authenticate returns an HTTP middleware that validates the request's
// session token. The token is read from the "token" cookie, or from an
// Authorization Bearer header for non-cookie clients; the cookie takes
// precedence. On success the decoded Identity is attached to the request
// context. On failure a 401 JSON error is returned.
func Authenticate(authSvc *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string
			if c, err := r.Cookie(TokenCookieName); err == nil {
				token = c.Value
			}
			if token == "" {
				authHeader := r.Header.Get("Authorization")
				if strings.HasPrefix(authHeader, "Bearer ") {
					token = strings.TrimPrefix(authHeader, "Bearer ")
				}
			}

			if token == "" {
				writeAuthError(w, http.StatusUnauthorized, "Not authenticated")
				return
			}

			identity, err := authSvc.ValidateToken(token)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), IdentityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole returns an HTTP middleware that enforces a specific admin
// role. It must be used after Authenticate in the middleware chain.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := GetIdentity(r.Context())
			if identity == nil {
				writeAuthError(w, http.StatusUnauthorized, "Not authenticated")
				return
			}
			if identity.Role != role {
				writeAuthError(w, http.StatusForbidden, role+" role required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetIdentity extracts the authenticated identity from the context. Returns
// nil for unauthenticated requests.
func GetIdentity(ctx context.Context) *service.Identity {
	if id, ok := ctx.Value(IdentityKey).(*service.Identity); ok {
		return id
	}
	return nil
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Hand-built JSON avoids an import cycle with the handler package.
	w.Write([]byte(`{"message":"` + message + `"}`))
}
