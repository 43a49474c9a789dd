// Package sign предоставляет HTTP-хендлер выдачи подписи Sign/Time для запроса.
package sign

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/kazakovdmitriy/go-dynrules-signer/internal/model"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/rules"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/signer"
)

const maxBodySize = 64 << 10

type SignHandler struct {
	service SignService
	log     *zap.Logger
}

func NewSignHandler(service SignService, log *zap.Logger) *SignHandler {
	return &SignHandler{
		service: service,
		log:     log,
	}
}

// PostSign принимает {"url","user_id","time"} и отвечает {"sign","time"}.
// Заголовки Sign и Time дублируют тело ответа.
// 400 - некорректный ввод, 503 - правила недоступны, 500 - ошибка хеширования.
func (h *SignHandler) PostSign(w http.ResponseWriter, r *http.Request) {
	var req model.SignRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		h.logAndWriteError(w, err, http.StatusBadRequest, "invalid JSON in request")
		return
	}
	if req.URL == "" {
		h.logAndWriteError(w, errors.New("url is required"), http.StatusBadRequest, "url is required")
		return
	}
	req.RemoteAddr = r.RemoteAddr

	result, err := h.service.Sign(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, signer.ErrInvalidInput):
			h.logAndWriteError(w, err, http.StatusBadRequest, "invalid sign request", zap.String("url", req.URL))
		case errors.Is(err, rules.ErrNoRules):
			h.logAndWriteError(w, err, http.StatusServiceUnavailable, "dynamic rules are not available")
		default:
			h.logAndWriteError(w, err, http.StatusInternalServerError, "failed to compute signature")
		}
		return
	}

	body, err := json.Marshal(result)
	if err != nil {
		h.logAndWriteError(w, err, http.StatusInternalServerError, "failed to encode response")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(model.SignHeader, result.Sign)
	w.Header().Set(model.TimeHeader, strconv.FormatInt(result.Time, 10))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (h *SignHandler) logAndWriteError(
	w http.ResponseWriter,
	err error,
	statusCode int,
	msg string,
	fields ...zap.Field,
) {
	logEntry := h.log.With(fields...)
	if statusCode >= http.StatusInternalServerError {
		logEntry.Error(msg, zap.Error(err))
	} else {
		logEntry.Warn(msg, zap.Error(err))
	}
	http.Error(w, msg, statusCode)
}
