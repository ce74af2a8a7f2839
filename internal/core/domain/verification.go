package domain

import "time"

// RequestState is the lifecycle state of a verification request. The values
// are the platform-wide Spanish codes shared with the other services.
type RequestState string

const (
	StatePending  RequestState = "PENDIENTE"
	StateApproved RequestState = "APROBADO"
	StateRejected RequestState = "RECHAZADO"
)

// Valid reports whether s is one of the known request states.
func (s RequestState) Valid() bool {
	switch s {
	case StatePending, StateApproved, StateRejected:
		return true
	}
	return false
}

// Terminal reports whether the state admits no further transitions.
// Transitions are one-way: PENDIENTE -> APROBADO | RECHAZADO.
func (s RequestState) Terminal() bool {
	return s == StateApproved || s == StateRejected
}

// VerificationRequest is a user's application to be promoted from student to
// tutor. A user gets at most one request, ever: resubmission is blocked even
// after rejection (first-request-wins).
type VerificationRequest struct {
	ID     int64        `json:"id"`
	UserID int64        `json:"user_id"`
	State  RequestState `json:"state"`

	// Comment is operator-supplied on decision, optional.
	Comment string `json:"comment,omitempty"`

	// EvidencePhoto is the identity-document photo reference, required at
	// creation. Documents carries optional supporting file references.
	EvidencePhoto string   `json:"foto_ci"`
	Documents     []string `json:"documents,omitempty"`

	// TutorProfileID is set if and only if State == APROBADO.
	TutorProfileID *int64 `json:"tutor_profile_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	// DecidedAt is set if and only if the request is terminal.
	DecidedAt *time.Time `json:"decided_at,omitempty"`
	UpdatedAt time.Time  `json:"updated_at"`
}
