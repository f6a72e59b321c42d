package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/akashverma712/shiksha-setu-backend/internal/api/util"
	"github.com/akashverma712/shiksha-setu-backend/internal/auth"
	"github.com/akashverma712/shiksha-setu-backend/internal/shared"
)

type contextKey string

const userContextKey contextKey = "user"

// CurrentUser returns the authenticated user injected by AuthMiddleware.
func CurrentUser(ctx context.Context) (*auth.AuthUser, bool) {
	user, ok := ctx.Value(userContextKey).(*auth.AuthUser)
	return user, ok
}

// AuthMiddleware creates a middleware that validates JWT tokens via the
// auth service and injects the resolved user into the request context.
func AuthMiddleware(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := util.ExtractToken(r)
			if err != nil {
				util.WriteJSONError(w, http.StatusUnauthorized, "Authorization token required")
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			defer cancel()

			user, err := authService.ValidateToken(ctx, tokenStr)
			if err != nil {
				util.WriteJSONError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctxWithUser := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctxWithUser))
		})
	}
}

// RequireRoles rejects requests whose authenticated user holds none of the
// given roles. Must run after AuthMiddleware.
func RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := CurrentUser(r.Context())
			if !ok {
				util.WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			util.WriteJSONError(w, http.StatusForbidden, "Insufficient permissions")
		})
	}
}

// RequireStaff rejects requests from non-staff accounts. Must run after
// AuthMiddleware.
func RequireStaff() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := CurrentUser(r.Context())
			if !ok {
				util.WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if !shared.IsStaffRole(user.Role) {
				util.WriteJSONError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
