package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Metrics holds Prometheus collectors for presentation requests.
type Metrics struct {
	Created      prometheus.Counter
	CreateFailed *prometheus.CounterVec
	CacheLookups *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Created: f.NewCounter(prometheus.CounterOpts{
			Name: "credex_presentation_requests_created_total",
			Help: "Presentation requests signed and stored",
		}),
		CreateFailed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "credex_presentation_request_create_failures_total",
			Help: "Failed presentation request creations, labeled by error code",
		}, []string{"code"}),
		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "credex_presentation_request_cache_lookups_total",
			Help: "Presentation request cache lookups, labeled by result",
		}, []string{"result"}),
	}
}

func (m *Metrics) IncrementCreated() {
	m.Created.Inc()
}

func (m *Metrics) IncrementCreateFailed(code string) {
	m.CreateFailed.WithLabelValues(code).Inc()
}

func (m *Metrics) RecordCacheLookup(result string) {
	m.CacheLookups.WithLabelValues(result).Inc()
}
