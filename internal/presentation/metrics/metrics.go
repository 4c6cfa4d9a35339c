package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for presentation submissions.
type Metrics struct {
	Accepted *prometheus.CounterVec
	Rejected *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Accepted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "credex_presentations_accepted_total",
			Help: "Presentation submissions accepted, labeled by wire format",
		}, []string{"format"}),
		Rejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "credex_presentations_rejected_total",
			Help: "Presentation submissions rejected, labeled by error code",
		}, []string{"code"}),
	}
}

func (m *Metrics) IncrementAccepted(format string) {
	m.Accepted.WithLabelValues(format).Inc()
}

func (m *Metrics) IncrementRejected(code string) {
	m.Rejected.WithLabelValues(code).Inc()
}
