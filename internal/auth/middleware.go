// internal/auth/middleware.go
// JWT bearer authentication for protected routes.
// Token issuance lives in the identity service; this layer only validates.

package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/DevMosaicRakib/The-Social-Runner-sub000/internal/common/utils"
)

// ContextUserID is the context key under which the authenticated actor id is stored
const ContextUserID = "userID"

// Middleware provides authentication middleware
type Middleware struct {
	secret string
}

// NewMiddleware creates a new auth middleware
func NewMiddleware(secret string) *Middleware {
	return &Middleware{secret: secret}
}

// Authenticate verifies the JWT token and adds user information to the request context
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := m.extractToken(r)
		if token == "" {
			utils.RespondWithError(w, http.StatusUnauthorized, "Missing or invalid authorization header")
			return
		}

		claims, err := utils.ValidateJWT(token, m.secret)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		// Refresh tokens cannot be used to call the API
		if claims.Type != "access" {
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid token type")
			return
		}

		ctx := context.WithValue(r.Context(), ContextUserID, claims.UserID)
		ctx = context.WithValue(ctx, "username", claims.Username)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFromContext returns the authenticated actor id set by Authenticate
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ContextUserID).(int64)
	return id, ok
}

// extractToken pulls the bearer token from the Authorization header
func (m *Middleware) extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return parts[1]
}
