package signservice

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kazakovdmitriy/go-dynrules-signer/internal/metrics"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/model"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/observers"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/signer"
)

//go:generate mockgen -destination=../../mocks/signservice_mock.go -package=mocks . RulesProvider,RequestSigner

// RulesProvider отдает актуальный набор правил.
type RulesProvider interface {
	Current(ctx context.Context) (*model.RuleSet, error)
}

type RequestSigner interface {
	Sign(fullURL, userID string, timestamp int64, rules *model.RuleSet) (*model.SignatureResult, error)
}

type SignService struct {
	rules     RulesProvider
	signer    RequestSigner
	publisher observers.EventPublisher
	metrics   *metrics.Metrics
	log       *zap.Logger
}

// NewSignService создает сервис. publisher и m могут быть nil.
func NewSignService(
	rules RulesProvider,
	signer RequestSigner,
	publisher observers.EventPublisher,
	m *metrics.Metrics,
	log *zap.Logger,
) *SignService {
	return &SignService{
		rules:     rules,
		signer:    signer,
		publisher: publisher,
		metrics:   m,
		log:       log,
	}
}

// Sign подписывает запрос по текущим правилам. При ошибке результат всегда nil.
func (s *SignService) Sign(ctx context.Context, req model.SignRequest) (*model.SignatureResult, error) {
	started := time.Now()

	rules, err := s.rules.Current(ctx)
	if err != nil {
		s.metrics.ObserveSignature("no_rules", time.Since(started))
		return nil, err
	}

	result, err := s.signer.Sign(req.URL, req.UserID.String(), req.Time, rules)
	if err != nil {
		s.metrics.ObserveSignature(resultLabel(err), time.Since(started))
		return nil, err
	}
	s.metrics.ObserveSignature("success", time.Since(started))

	s.publish(req, result, rules.Revision)

	return result, nil
}

func (s *SignService) publish(req model.SignRequest, result *model.SignatureResult, revision string) {
	if s.publisher == nil {
		return
	}

	path := ""
	if u, err := url.Parse(req.URL); err == nil {
		path = u.EscapedPath()
	}

	userID := req.UserID.String()
	if userID == "" {
		userID = "0"
	}

	now := time.Now()
	s.publisher.Publish(model.SignatureIssuedEvent{
		ID:        uuid.NewString(),
		Timestamp: now,
		Ts:        now.UnixMilli(),
		Path:      path,
		UserID:    userID,
		SignTime:  result.Time,
		Revision:  revision,
		IPAddr:    req.RemoteAddr,
	})
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, signer.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, signer.ErrHashFailure):
		return "hash_failure"
	default:
		return "error"
	}
}
