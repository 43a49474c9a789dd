package middlewares

import (
	"context"
	"net/http"
	"sync"
)

// RequestTracker учитывает запросы в обработке, чтобы при остановке
// перестать принимать новые и дождаться текущих.
type RequestTracker struct {
	mu      sync.Mutex
	closing bool
	active  sync.WaitGroup
}

func NewRequestTracker() *RequestTracker {
	return &RequestTracker{}
}

func (t *RequestTracker) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.mu.Lock()
		if t.closing {
			t.mu.Unlock()
			http.Error(w, "Server is shutting down", http.StatusServiceUnavailable)
			return
		}
		t.active.Add(1)
		t.mu.Unlock()

		defer t.active.Done()
		next.ServeHTTP(w, r)
	})
}

// Drain закрывает прием запросов и ждет завершения начатых либо отмены ctx.
func (t *RequestTracker) Drain(ctx context.Context) error {
	t.mu.Lock()
	t.closing = true
	t.mu.Unlock()

	done := make(chan struct{})
	go func() {
		t.active.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
