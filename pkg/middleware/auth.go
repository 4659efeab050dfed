package middleware

import (
	"crypto/subtle"
	"net/http"

	"probul-backend/pkg/utils"

	"go.uber.org/zap"
)

const AdminKeyHeader = "X-Admin-Key"

// AdminKey admits requests whose X-Admin-Key header equals secret byte for
// byte. An empty secret rejects every request.
func AdminKey(secret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			supplied := r.Header.Get(AdminKeyHeader)

			if secret == "" || subtle.ConstantTimeCompare([]byte(supplied), []byte(secret)) != 1 {
				logger.Warn("Admin check: rejected access attempt",
					zap.String("path", r.URL.Path),
					zap.String("ip", r.RemoteAddr),
					zap.Bool("key_present", supplied != ""),
				)
				utils.ResponseUnauthorized(w, "Unauthorized access.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
