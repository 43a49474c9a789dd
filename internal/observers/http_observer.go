package observers

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/kazakovdmitriy/go-dynrules-signer/internal/model"
)

// HTTPObserver отправляет события POST-запросом на внешний сервис аудита.
type HTTPObserver struct {
	url     string
	log     *zap.Logger
	client  *http.Client
	timeout time.Duration
}

func NewHTTPObserver(url string, log *zap.Logger) *HTTPObserver {
	return &HTTPObserver{
		url: url,
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     30 * time.Second,
			},
		},
		timeout: 10 * time.Second,
		log:     log,
	}
}

func (h *HTTPObserver) OnSignatureIssued(event model.SignatureIssuedEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.log.Error("Failed to marshal audit event", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(payload))
	if err != nil {
		h.log.Error("Failed to create audit request", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		h.log.Warn("Failed to send audit event", zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		h.log.Warn("Audit receiver rejected event",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body),
		)
		return
	}

	h.log.Debug("Audit event sent", zap.String("id", event.ID), zap.Int("status", resp.StatusCode))
}
