package middlewares

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// RequestLogger логирует каждый запрос вместе со статусом и размером ответа.
func RequestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			sizeKB := float64(ww.BytesWritten()) / 1024.0
			log.Debug(
				"handled HTTP request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("URI", r.URL.Path),
				zap.String("method", r.Method),
				zap.Int("status code", ww.Status()),
				zap.String("response size", fmt.Sprintf("%.2f kb", sizeKB)),
				zap.String("duration", time.Since(start).String()),
			)
		})
	}
}
