package middleware

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/tradepost/tradepost/internal/auth"
	"github.com/tradepost/tradepost/internal/model"
)

// RequireRole returns middleware that enforces role requirements.
// Must be applied after Auth middleware.
// If multiple roles are provided, having ANY of them is sufficient.
func RequireRole(required ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authCtx := auth.AuthFromContext(r.Context())
			if authCtx == nil {
				writeRoleError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
				return
			}

			// Admins pass every role gate
			if authCtx.Role == model.RoleAdmin {
				next.ServeHTTP(w, r)
				return
			}

			if slices.Contains(required, authCtx.Role) {
				next.ServeHTTP(w, r)
				return
			}

			writeRoleError(w, http.StatusForbidden, "FORBIDDEN",
				fmt.Sprintf("Insufficient permissions. Required role: %s", required[0]))
		})
	}
}

// RequireAdmin is a convenience middleware for the admin role.
func RequireAdmin() func(http.Handler) http.Handler {
	return RequireRole(model.RoleAdmin)
}

// RequireStaff is a convenience middleware for moderator or admin.
func RequireStaff() func(http.Handler) http.Handler {
	return RequireRole(model.RoleAdmin, model.RoleModerator)
}

// writeRoleError writes a role-related error response.
func writeRoleError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(fmt.Sprintf(`{"error":{"code":"%s","message":"%s"}}`, code, message)))
}
