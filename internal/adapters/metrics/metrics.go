package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/enseniamelo/tutor-verification-service/internal/core/ports"
)

// WorkflowMetrics counts workflow outcomes and times decision latency.
type WorkflowMetrics struct {
	submitted prometheus.Counter
	approved  prometheus.Counter
	rejected  prometheus.Counter
	deleted   prometheus.Counter
	decision  prometheus.Histogram
}

var _ ports.WorkflowMetrics = (*WorkflowMetrics)(nil)

func NewWorkflowMetrics(reg prometheus.Registerer) *WorkflowMetrics {
	factory := promauto.With(reg)
	return &WorkflowMetrics{
		submitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "verification_requests_submitted_total",
			Help: "Number of verification requests accepted for review.",
		}),
		approved: factory.NewCounter(prometheus.CounterOpts{
			Name: "verification_requests_approved_total",
			Help: "Number of verification requests approved.",
		}),
		rejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "verification_requests_rejected_total",
			Help: "Number of verification requests rejected.",
		}),
		deleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "verification_requests_deleted_total",
			Help: "Number of verification requests deleted.",
		}),
		decision: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "verification_decision_duration_seconds",
			Help:    "Latency of approve/reject operations.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *WorkflowMetrics) IncSubmitted() { m.submitted.Inc() }
func (m *WorkflowMetrics) IncApproved()  { m.approved.Inc() }
func (m *WorkflowMetrics) IncRejected()  { m.rejected.Inc() }
func (m *WorkflowMetrics) IncDeleted()   { m.deleted.Inc() }

func (m *WorkflowMetrics) ObserveDecision(start time.Time) {
	m.decision.Observe(time.Since(start).Seconds())
}
