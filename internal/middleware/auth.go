package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/tradepost/tradepost/internal/auth"
	"github.com/tradepost/tradepost/internal/cache"
	"github.com/tradepost/tradepost/internal/model"
	"github.com/tradepost/tradepost/internal/repository"
)

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger     *slog.Logger
	Tokens     *auth.TokenService
	Repository *repository.Repository
	Cache      *cache.Cache
}

// Auth returns a middleware that authenticates requests with a bearer
// access token. It verifies the token signature and type, resolves the
// account behind it, and injects the auth context into the request.
// Accounts are resolved through a short-lived cache keyed by a token
// fingerprint, so a role change or deletion takes effect within the
// cache TTL rather than immediately.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "missing_token"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			userID, err := cfg.Tokens.Verify(token, auth.TokenTypeAccess)
			if err != nil {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "invalid_token"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			// Check cache first
			cacheKey := auth.Fingerprint(token)
			authCtx, _ := cfg.Cache.GetAuthContext(r.Context(), cacheKey)

			if authCtx != nil {
				ctx := auth.ContextWithAuth(r.Context(), authCtx)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			// Cache miss - load the account; soft-deleted accounts do
			// not resolve, so their tokens stop working here.
			user, err := cfg.Repository.GetUserByID(r.Context(), userID)
			if err != nil {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "unknown_account"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			authCtx = &model.AuthContext{
				UserID: user.ID,
				Email:  user.Email,
				Role:   user.Role,
			}

			_ = cfg.Cache.SetAuthContext(r.Context(), cacheKey, authCtx)

			ctx := auth.ContextWithAuth(r.Context(), authCtx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken extracts the access token from the
// Authorization header.
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// writeAuthError writes a 401 Unauthorized response.
// Uses the same message for all auth failures to prevent enumeration.
func writeAuthError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":{"code":"UNAUTHORIZED","message":"Invalid or missing access token"}}`))
}
