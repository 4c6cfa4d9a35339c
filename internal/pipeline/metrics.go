package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	StepDuration *prometheus.HistogramVec
}

// NewMetrics registers the step histogram on reg. One Metrics may be shared by every pipeline.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		StepDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "credex_pipeline_step_duration_seconds",
			Help:    "Duration of pipeline steps by pipeline, step and outcome",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"pipeline", "step", "outcome"}),
	}
}

func (m *Metrics) ObserveStep(pipeline, step, outcome string, d time.Duration) {
	m.StepDuration.WithLabelValues(pipeline, step, outcome).Observe(d.Seconds())
}
