package ports

import "time"

// WorkflowMetrics is the observability hook the core services report into.
// The prometheus adapter implements it; tests pass nil.
type WorkflowMetrics interface {
	IncSubmitted()
	IncApproved()
	IncRejected()
	IncDeleted()
	ObserveDecision(start time.Time)
}
