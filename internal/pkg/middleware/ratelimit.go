package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"stockledger/internal/pkg/cache"
	"stockledger/internal/pkg/logger"
)

const rateLimitKey = "rate-limit:"

// RateLimiter limita requisições por IP numa janela fixa contada no Redis.
// Falhas do Redis não bloqueiam a requisição.
func RateLimiter(client cache.Client, limit int, window time.Duration, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if client == nil || limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			count, err := client.IncrWithExpiry(r.Context(), rateLimitKey+ip, window)
			if err != nil {
				log.Warn("Rate limiter indisponível.", map[string]interface{}{"error": err.Error()})
				next.ServeHTTP(w, r)
				return
			}

			if count > int64(limit) {
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(int64(limit)-count, 10))
			next.ServeHTTP(w, r)
		})
	}
}
