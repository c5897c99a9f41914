package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
)

// APIKeyHeader is the HTTP header carrying the service API key.
const APIKeyHeader = "X-API-Key"

// APIKey returns middleware that gates requests behind a static
// service key. It protects the credential endpoints from anonymous
// scripted abuse; it is not a per-user credential.
func APIKey(key string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(APIKeyHeader)
			if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
				logger.Warn("api key check failed",
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":{"code":"UNAUTHORIZED","message":"Invalid or missing API key"}}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
