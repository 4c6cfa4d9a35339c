package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeRotated   = "rotated"
	OutcomeUnchanged = "unchanged"
	OutcomeFailed    = "failed"
)

// Metrics holds Prometheus collectors for verifier token rotation.
type Metrics struct {
	TokenRotations *prometheus.CounterVec
	LookupFailures prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		TokenRotations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "credex_verifier_token_rotations_total",
			Help: "Auth token rotation outcomes, labeled by outcome",
		}, []string{"outcome"}),
		LookupFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "credex_verifier_lookup_failures_total",
			Help: "Verifier lookups that failed for reasons other than not found",
		}),
	}
}

func (m *Metrics) IncrementRotated() {
	m.TokenRotations.WithLabelValues(OutcomeRotated).Inc()
}

func (m *Metrics) IncrementUnchanged() {
	m.TokenRotations.WithLabelValues(OutcomeUnchanged).Inc()
}

func (m *Metrics) IncrementFailed() {
	m.TokenRotations.WithLabelValues(OutcomeFailed).Inc()
}

func (m *Metrics) IncrementLookupFailures() {
	m.LookupFailures.Inc()
}
