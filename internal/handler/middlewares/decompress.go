package middlewares

import (
	"compress/gzip"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// DecompressRequest распаковывает тело запроса с Content-Encoding: gzip.
// Сжатие ответов делает middleware.Compress из chi.
func DecompressRequest(log *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isGzipEncoding(r.Header.Get("Content-Encoding")) {
				next.ServeHTTP(w, r)
				return
			}

			zr, err := gzip.NewReader(r.Body)
			if err != nil {
				log.Error("Decompression error", zap.Error(err))
				http.Error(w, "Bad Request: invalid compressed body", http.StatusBadRequest)
				return
			}
			defer zr.Close()

			r.Body = zr
			r.Header.Del("Content-Encoding")
			r.ContentLength = -1

			next.ServeHTTP(w, r)
		})
	}
}

func isGzipEncoding(enc string) bool {
	for _, part := range strings.Split(enc, ",") {
		if strings.EqualFold(strings.TrimSpace(part), "gzip") {
			return true
		}
	}
	return false
}
