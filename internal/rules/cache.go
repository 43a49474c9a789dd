package rules

import (
	"time"

	"github.com/kazakovdmitriy/go-dynrules-signer/internal/cache"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/metrics"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/model"
)

// Cache хранит загруженные правила по ключу.
type Cache = cache.Cache[*model.RulesEnvelope]

// NewCache создает кэш правил. ttl <= 0 означает, что записи не устаревают.
func NewCache(ttl time.Duration, m *metrics.Metrics) *Cache {
	return cache.New[*model.RulesEnvelope]("rules", ttl, m)
}
