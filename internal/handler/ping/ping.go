package ping

import (
	"context"
	"net/http"
	"time"

	"github.com/kazakovdmitriy/go-dynrules-signer/internal/service"
	"go.uber.org/zap"
)

type PingHandler struct {
	log     *zap.Logger
	storage service.RulesStorage
}

func NewPingHandler(log *zap.Logger, storage service.RulesStorage) *PingHandler {
	return &PingHandler{
		log:     log,
		storage: storage,
	}
}

// GetPing проверяет доступность хранилища правил.
// Хранилище без HealthChecker (в памяти) считается всегда доступным.
func (h *PingHandler) GetPing(w http.ResponseWriter, r *http.Request) {
	healthChecker, ok := h.storage.(HealthChecker)
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := healthChecker.Ping(ctx); err != nil {
		h.log.Warn("Failed to ping database", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
