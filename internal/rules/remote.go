package rules

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kazakovdmitriy/go-dynrules-signer/internal/apiclient"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/model"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/retry"
)

const apiKeyHeader = "apiKey"

// RemoteSource загружает правила с HTTP-эндпоинта провайдера.
type RemoteSource struct {
	url        string
	apiKey     string
	httpClient *http.Client
	retryCfg   retry.RetryConfig
	now        func() time.Time
	log        *zap.Logger
}

func NewRemoteSource(
	url, apiKey string,
	maxRetries int,
	delays []time.Duration,
	log *zap.Logger,
) *RemoteSource {
	return &RemoteSource{
		url:    url,
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
		retryCfg: retry.RetryConfig{
			MaxRetries:    maxRetries,
			Delays:        delays,
			IsRetryableFn: apiclient.IsRetryable,
		},
		now: time.Now,
		log: log,
	}
}

func (s *RemoteSource) Fetch(ctx context.Context) (*model.RulesEnvelope, error) {
	var env *model.RulesEnvelope

	err := retry.Do(ctx, s.retryCfg, func() error {
		fetched, err := s.fetchOnce(ctx)
		if err != nil {
			s.log.Warn("fetching dynamic rules failed", zap.String("url", s.url), zap.Error(err))
			return err
		}
		env = fetched
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetching rules from %s: %w", s.url, err)
	}

	return env, nil
}

func (s *RemoteSource) fetchOnce(ctx context.Context) (*model.RulesEnvelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request failed: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if s.apiKey != "" {
		req.Header.Set(apiKeyHeader, s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request failed: %w", err)
	}

	body, err := apiclient.ReadResponse(resp)
	if err != nil {
		return nil, err
	}

	env, err := model.DecodeRulesEnvelope(body)
	if err != nil {
		return nil, err
	}
	if err := env.Rules.Validate(); err != nil {
		return nil, err
	}
	if env.UpdatedAt.IsZero() {
		env.UpdatedAt = s.now().UTC()
	}

	return env, nil
}
