package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records submission outcomes and non-fatal stage failures.
// A nil *Metrics is a valid no-op recorder.
type Metrics struct {
	outcomes      *prometheus.CounterVec
	stageFailures *prometheus.CounterVec
}

// New registers the lead capture collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lead_submissions_total",
			Help: "Lead form submissions by terminal outcome.",
		}, []string{"outcome"}),
		stageFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lead_stage_failures_total",
			Help: "Failures per submission stage.",
		}, []string{"stage"}),
	}
	reg.MustRegister(m.outcomes, m.stageFailures)
	return m
}

// Outcome counts one terminal outcome.
func (m *Metrics) Outcome(outcome string) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(outcome).Inc()
}

// StageFailure counts one failure at the named stage.
func (m *Metrics) StageFailure(stage string) {
	if m == nil {
		return
	}
	m.stageFailures.WithLabelValues(stage).Inc()
}
