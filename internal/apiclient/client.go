package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/kazakovdmitriy/go-dynrules-signer/internal/metrics"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/model"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/retry"
)

const AppTokenHeader = "App-Token"

// RulesProvider отдает актуальные динамические правила.
type RulesProvider interface {
	Current(ctx context.Context) (*model.RuleSet, error)
}

type RequestSigner interface {
	Sign(fullURL, userID string, timestamp int64, rules *model.RuleSet) (*model.SignatureResult, error)
}

type Config struct {
	// RateLimit ограничивает число одновременных запросов, 0 - без ограничения.
	RateLimit   int
	MaxRetries  int
	RetryDelays []time.Duration
	Headers     map[string]string
	Timeout     time.Duration
	// Hash - источник X-Hash. nil - заголовок не отправляется.
	Hash HashProvider
}

// Client выполняет GET-запросы, подписанные по динамическим правилам.
type Client struct {
	httpClient *http.Client
	rules      RulesProvider
	signer     RequestSigner
	identity   IdentityProvider
	hash       HashProvider
	headers    map[string]string
	retryCfg   retry.RetryConfig
	semaphore  *semaphore.Weighted
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

func NewClient(
	rules RulesProvider,
	signer RequestSigner,
	identity IdentityProvider,
	cfg Config,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Client {
	var sem *semaphore.Weighted
	if cfg.RateLimit > 0 {
		sem = semaphore.NewWeighted(int64(cfg.RateLimit))
		logger.Info("client semaphore initialized", zap.Int("rate_limit", cfg.RateLimit))
	} else if cfg.RateLimit < 0 {
		logger.Warn("invalid rate limit, using unlimited mode", zap.Int("rate_limit", cfg.RateLimit))
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	headers := make(map[string]string, len(cfg.Headers))
	for k, v := range cfg.Headers {
		headers[k] = v
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		rules:      rules,
		signer:     signer,
		identity:   identity,
		hash:       cfg.Hash,
		headers:    headers,
		retryCfg: retry.RetryConfig{
			MaxRetries:    cfg.MaxRetries,
			Delays:        cfg.RetryDelays,
			IsRetryableFn: IsRetryable,
		},
		semaphore: sem,
		metrics:   m,
		logger:    logger,
	}
}

// Get подписывает и выполняет GET. Если подпись получить не удалось,
// запрос не отправляется.
func (c *Client) Get(ctx context.Context, fullURL string) ([]byte, error) {
	if c.semaphore != nil {
		if err := c.semaphore.Acquire(ctx, 1); err != nil {
			return nil, fmt.Errorf("failed to acquire semaphore: %w", err)
		}
		defer c.semaphore.Release(1)
	}

	userID, err := c.identity.UserID(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving user id: %w", err)
	}

	rules, err := c.rules.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading dynamic rules: %w", err)
	}

	var xHash string
	if c.hash != nil {
		xHash, err = c.hash.XHash(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("resolving x-hash: %w", err)
		}
	}

	var body []byte
	err = retry.Do(ctx, c.retryCfg, func() error {
		resp, err := c.doGet(ctx, fullURL, userID, xHash, rules)
		if err != nil {
			return err
		}
		body = resp
		return nil
	})
	if err != nil {
		return nil, err
	}

	return body, nil
}

// Каждая попытка подписывается заново: время в подписи должно быть свежим.
func (c *Client) doGet(ctx context.Context, fullURL, userID, xHash string, rules *model.RuleSet) ([]byte, error) {
	signature, err := c.signer.Sign(fullURL, userID, 0, rules)
	if err != nil {
		return nil, fmt.Errorf("signing request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request failed: %w", err)
	}

	c.setRequestHeaders(req, signature, userID, xHash, rules)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request failed: %w", err)
	}
	c.metrics.OutboundRequest(resp.StatusCode)

	return ReadResponse(resp)
}

func (c *Client) setRequestHeaders(req *http.Request, signature *model.SignatureResult, userID, xHash string, rules *model.RuleSet) {
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("X-Request-ID", uuid.NewString())

	for key, value := range signature.Headers() {
		req.Header.Set(key, value)
	}

	if userID == "" {
		userID = "0"
	}
	req.Header.Set(model.UserIDHeader, userID)

	if rules.AppToken != "" {
		req.Header.Set(AppTokenHeader, rules.AppToken)
	}
	if xHash != "" {
		req.Header.Set(XHashHeader, xHash)
	}
}
