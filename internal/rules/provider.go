package rules

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kazakovdmitriy/go-dynrules-signer/internal/metrics"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/model"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/service"
)

const rulesKey = "default"

var (
	ErrNoRules  = errors.New("no dynamic rules available")
	ErrNoSource = errors.New("rules source is not configured")
)

// Provider отдает текущие правила: кэш, затем хранилище, затем источник.
type Provider struct {
	source  Source
	storage service.RulesStorage
	cache   *Cache
	metrics *metrics.Metrics
	log     *zap.Logger
}

// NewProvider создает провайдер. source может быть nil, тогда правила берутся только из хранилища.
func NewProvider(
	source Source,
	storage service.RulesStorage,
	cache *Cache,
	m *metrics.Metrics,
	log *zap.Logger,
) *Provider {
	return &Provider{
		source:  source,
		storage: storage,
		cache:   cache,
		metrics: m,
		log:     log,
	}
}

// Current возвращает копию текущего набора правил.
func (p *Provider) Current(ctx context.Context) (*model.RuleSet, error) {
	env, err := p.cache.Get(ctx, rulesKey, p.load)
	if err != nil {
		return nil, err
	}

	rules := env.Rules
	rules.ChecksumIndexes = append([]int(nil), env.Rules.ChecksumIndexes...)
	return &rules, nil
}

// Refresh принудительно загружает правила из источника и сохраняет их.
func (p *Provider) Refresh(ctx context.Context) (*model.RulesEnvelope, error) {
	if p.source == nil {
		return nil, ErrNoSource
	}

	env, err := p.fetch(ctx)
	if err != nil {
		p.metrics.RulesRefreshed("error", time.Time{})
		return nil, err
	}

	p.cache.Set(rulesKey, env)
	p.metrics.RulesRefreshed("success", env.UpdatedAt)
	p.log.Info("dynamic rules refreshed",
		zap.String("revision", env.Rules.Revision),
		zap.Time("updated_at", env.UpdatedAt),
	)

	return env, nil
}

// Status возвращает метаданные текущих правил без секретных полей.
func (p *Provider) Status(ctx context.Context) model.RulesStatus {
	env, err := p.cache.Get(ctx, rulesKey, p.load)
	if err != nil {
		return model.RulesStatus{}
	}

	return model.RulesStatus{
		Present:   true,
		Revision:  env.Rules.Revision,
		UpdatedAt: env.UpdatedAt,
	}
}

func (p *Provider) load(ctx context.Context) (*model.RulesEnvelope, error) {
	env, ok, err := p.storage.LoadRules(ctx)
	if err != nil {
		p.log.Warn("loading rules from storage failed", zap.Error(err))
	}
	if ok {
		if err := env.Rules.Validate(); err == nil {
			return env, nil
		}
		p.log.Warn("stored rules are invalid, fetching from source")
	}

	if p.source == nil {
		return nil, ErrNoRules
	}

	env, err = p.fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoRules, err)
	}
	return env, nil
}

func (p *Provider) fetch(ctx context.Context) (*model.RulesEnvelope, error) {
	env, err := p.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if env == nil {
		return nil, errors.New("rules source returned no rules")
	}
	if err := env.Rules.Validate(); err != nil {
		return nil, err
	}

	if err := p.storage.SaveRules(ctx, env); err != nil {
		p.log.Error("saving rules to storage failed", zap.Error(err))
	}

	return env, nil
}
