package ratelimit

import (
	"math"
	"net"
	"net/http"
	"strconv"

	"probul-backend/pkg/utils"

	"go.uber.org/zap"
)

// Middleware rejects requests beyond rule's budget per client IP with 429.
// Limiter failures let the request through.
func Middleware(limiter Limiter, rule Rule, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := rule.Name + ":" + clientIP(r)

			result, err := limiter.Allow(r.Context(), key, rule.Limit, rule.Window)
			if err != nil {
				log.Error("Rate limiter unavailable",
					zap.Error(err),
					zap.String("rule", rule.Name),
				)
				next.ServeHTTP(w, r)
				return
			}

			resetSeconds := strconv.Itoa(int(math.Ceil(result.ResetAfter.Seconds())))
			w.Header().Set("RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("RateLimit-Remaining", strconv.Itoa(result.Remaining))
			w.Header().Set("RateLimit-Reset", resetSeconds)

			if !result.Allowed {
				log.Warn("Rate limit exceeded",
					zap.String("rule", rule.Name),
					zap.String("key", key),
					zap.String("path", r.URL.Path),
				)
				w.Header().Set("Retry-After", resetSeconds)
				utils.ResponseTooManyRequests(w, rule.Message)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
