package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics собирает метрики сервиса подписи. Все методы допускают nil-получателя.
type Metrics struct {
	registry *prometheus.Registry

	signaturesTotal   *prometheus.CounterVec
	signDuration      prometheus.Histogram
	rulesRefreshTotal *prometheus.CounterVec
	cacheTotal        *prometheus.CounterVec
	rulesUpdatedAt    prometheus.Gauge
	outboundTotal     *prometheus.CounterVec
}

func NewMetrics(registry *prometheus.Registry) (*Metrics, error) {
	m := &Metrics{
		registry: registry,

		signaturesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signatures_total",
				Help: "Total number of signature requests by result",
			},
			[]string{"result"},
		),
		signDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sign_duration_seconds",
				Help:    "Time spent computing a signature",
				Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
			},
		),
		rulesRefreshTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rules_refresh_total",
				Help: "Total number of dynamic rules refreshes by result",
			},
			[]string{"result"},
		),
		cacheTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_lookups_total",
				Help: "Cache lookups by cache name and outcome",
			},
			[]string{"cache", "outcome"},
		),
		rulesUpdatedAt: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "rules_updated_timestamp_seconds",
				Help: "Unix time of the currently loaded dynamic rules",
			},
		),
		outboundTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signed_requests_total",
				Help: "Outbound signed requests by status code",
			},
			[]string{"status_code"},
		),
	}

	collectors := []prometheus.Collector{
		m.signaturesTotal,
		m.signDuration,
		m.rulesRefreshTotal,
		m.cacheTotal,
		m.rulesUpdatedAt,
		m.outboundTotal,
	}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}

	return m, nil
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveSignature(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.signaturesTotal.WithLabelValues(result).Inc()
	m.signDuration.Observe(d.Seconds())
}

func (m *Metrics) RulesRefreshed(result string, updatedAt time.Time) {
	if m == nil {
		return
	}
	m.rulesRefreshTotal.WithLabelValues(result).Inc()
	if !updatedAt.IsZero() {
		m.rulesUpdatedAt.Set(float64(updatedAt.Unix()))
	}
}

// CacheLookup учитывает обращение к кэшу: outcome - hit, miss или wait.
func (m *Metrics) CacheLookup(cache, outcome string) {
	if m == nil {
		return
	}
	m.cacheTotal.WithLabelValues(cache, outcome).Inc()
}

func (m *Metrics) OutboundRequest(statusCode int) {
	if m == nil {
		return
	}
	m.outboundTotal.WithLabelValues(fmt.Sprint(statusCode)).Inc()
}
