package signer

import (
	"bytes"
	"io"
	"net/http"
)

const HashHeader = "HashSHA256"

// HashValidationMiddleware отклоняет запросы с телом, подпись которого не совпала.
// Запросы без тела пропускаются.
func HashValidationMiddleware(signer Signer) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if signer == nil || r.Body == nil || r.Body == http.NoBody {
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				http.Error(w, "failed to read body", http.StatusBadRequest)
				return
			}
			r.Body.Close()

			if len(body) == 0 {
				r.Body = http.NoBody
				next.ServeHTTP(w, r)
				return
			}

			givenHash := r.Header.Get(HashHeader)
			if givenHash == "" || !signer.Verify(body, givenHash) {
				http.Error(w, "invalid body hash", http.StatusBadRequest)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}

// HashResponseMiddleware буферизует ответ и добавляет заголовок с его подписью.
func HashResponseMiddleware(signer Signer) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if signer == nil {
				next.ServeHTTP(w, r)
				return
			}

			bw := &bufferedWriter{header: make(http.Header), code: http.StatusOK}
			next.ServeHTTP(bw, r)

			body := bw.buf.Bytes()
			for k, vs := range bw.header {
				for _, v := range vs {
					w.Header().Add(k, v)
				}
			}
			w.Header().Set(HashHeader, signer.Sign(body))
			w.WriteHeader(bw.code)
			_, _ = w.Write(body)
		})
	}
}

type bufferedWriter struct {
	header      http.Header
	buf         bytes.Buffer
	code        int
	wroteHeader bool
}

func (b *bufferedWriter) Header() http.Header {
	return b.header
}

func (b *bufferedWriter) WriteHeader(code int) {
	if b.wroteHeader {
		return
	}
	b.wroteHeader = true
	b.code = code
}

func (b *bufferedWriter) Write(p []byte) (int, error) {
	b.wroteHeader = true
	return b.buf.Write(p)
}
