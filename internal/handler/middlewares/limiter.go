package middlewares

import (
	"net/http"

	"go.uber.org/zap"
)

// RateLimiter ограничивает число одновременно обрабатываемых запросов.
// maxConcurrent <= 0 отключает ограничение.
func RateLimiter(maxConcurrent int, log *zap.Logger) func(next http.Handler) http.Handler {
	if maxConcurrent <= 0 {
		log.Info("request rate limiting disabled")
		return func(next http.Handler) http.Handler { return next }
	}

	semaphore := make(chan struct{}, maxConcurrent)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case semaphore <- struct{}{}:
				defer func() { <-semaphore }()
				next.ServeHTTP(w, r)
			default:
				log.Warn("request rejected by rate limiter", zap.String("URI", r.URL.Path))
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			}
		})
	}
}
