package middleware

import (
	"net/http"

	"probul-backend/pkg/utils"

	"go.uber.org/zap"
)

// Recover turns a handler panic into a generic 500 JSON error.
func Recover(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}

					utils.RequestLogger(r.Context(), logger).Error("Panic recovered",
						zap.Any("error", err),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
						zap.Stack("stack"),
					)

					utils.ResponseInternalError(w, "Server error.")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
