// Package rules предоставляет HTTP-хендлеры состояния и обновления динамических правил.
// Сами правила наружу не отдаются: static_param является секретом.
package rules

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/kazakovdmitriy/go-dynrules-signer/internal/model"
	dynrules "github.com/kazakovdmitriy/go-dynrules-signer/internal/rules"
)

type RulesHandler struct {
	service RulesService
	log     *zap.Logger
}

func NewRulesHandler(service RulesService, log *zap.Logger) *RulesHandler {
	return &RulesHandler{
		service: service,
		log:     log,
	}
}

// GetStatus отдает метаданные текущих правил.
func (h *RulesHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	h.writeStatus(w, h.service.Status(r.Context()))
}

// PostRefresh принудительно загружает правила из источника.
func (h *RulesHandler) PostRefresh(w http.ResponseWriter, r *http.Request) {
	env, err := h.service.Refresh(r.Context())
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, dynrules.ErrNoSource) {
			status = http.StatusNotImplemented
		}
		h.log.Error("rules refresh failed", zap.Error(err))
		http.Error(w, "rules refresh failed", status)
		return
	}

	h.writeStatus(w, model.RulesStatus{
		Present:   true,
		Revision:  env.Rules.Revision,
		UpdatedAt: env.UpdatedAt,
	})
}

func (h *RulesHandler) writeStatus(w http.ResponseWriter, status model.RulesStatus) {
	body, err := json.Marshal(status)
	if err != nil {
		h.log.Error("failed to encode rules status", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
