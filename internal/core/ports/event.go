package ports

import (
	"context"
	"encoding/json"
	"time"
)

// EventType enumerates the platform event vocabulary for verification
// requests. CREATE and VERIFY_REQUEST both drive submission; the remaining
// types map one-to-one onto the decision operations.
type EventType string

const (
	EventCreate         EventType = "CREATE"
	EventVerifyRequest  EventType = "VERIFY_REQUEST"
	EventApproveRequest EventType = "APPROVE_REQUEST"
	EventRejectRequest  EventType = "REJECT_REQUEST"
	EventDelete         EventType = "DELETE"
)

// Event is the platform envelope carried on the message bus. Key identifies
// the target aggregate (the request id for decisions); Data is the
// type-specific payload.
type Event struct {
	EventType      EventType       `json:"event_type"`
	Key            string          `json:"key"`
	Data           json.RawMessage `json:"data"`
	EventCreatedAt time.Time       `json:"event_created_at"`
}

// SubmitEventPayload is the Data of CREATE / VERIFY_REQUEST events.
type SubmitEventPayload struct {
	UserID        int64    `json:"user_id"`
	EvidencePhoto string   `json:"foto_ci"`
	Comment       string   `json:"comment,omitempty"`
	Documents     []string `json:"documents,omitempty"`
}

// DecisionEventPayload is the Data of APPROVE_REQUEST / REJECT_REQUEST events.
type DecisionEventPayload struct {
	Comment string `json:"comment,omitempty"`
}

// VerificationEvent is the outbound payload published by the outbox relay
// after a workflow write commits.
type VerificationEvent struct {
	RequestID      int64  `json:"request_id"`
	UserID         int64  `json:"user_id"`
	State          string `json:"state"`
	TutorProfileID *int64 `json:"tutor_profile_id,omitempty"`
	Comment        string `json:"comment,omitempty"`
}

// Outbound event types written to the outbox and published by the relay.
const (
	EventVerificationSubmitted = "verification.submitted"
	EventVerificationApproved  = "verification.approved"
	EventVerificationRejected  = "verification.rejected"
	EventVerificationDeleted   = "verification.deleted"
)

type VerificationEventPublisher interface {
	PublishVerificationEvent(ctx context.Context, eventType string, evt VerificationEvent) error
}
