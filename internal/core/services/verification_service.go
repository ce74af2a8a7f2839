package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/enseniamelo/tutor-verification-service/internal/core/domain"
	"github.com/enseniamelo/tutor-verification-service/internal/core/ports"
)

// Counter names shared with the original platform data; other services key
// their own sequences in the same table.
const (
	verificationSequence = "verificar_solicitud_sequence"
	tutorProfileSequence = "perfil_tutor_sequence"
)

// VerificationService orchestrates the tutor verification workflow: request
// submission, approval, rejection and deletion. It enforces the cross-entity
// invariants (one request per user, one-way state transitions, role promoted
// exactly once) on top of the atomic operations the repository exposes.
type VerificationService struct {
	users     ports.UserRepository
	requests  ports.VerificationRepository
	sequences ports.SequenceAllocator
	metrics   ports.WorkflowMetrics
}

var _ ports.VerificationService = (*VerificationService)(nil)

func NewVerificationService(
	users ports.UserRepository,
	requests ports.VerificationRepository,
	sequences ports.SequenceAllocator,
	metrics ports.WorkflowMetrics,
) *VerificationService {
	return &VerificationService{
		users:     users,
		requests:  requests,
		sequences: sequences,
		metrics:   metrics,
	}
}

// Submit creates a PENDIENTE request for the user and links it to their
// account. The pre-check on the user's existing link is a fast path only;
// the uniqueness constraint inside requests.Create is what makes
// first-request-wins hold under concurrent submissions.
func (s *VerificationService) Submit(ctx context.Context, in ports.SubmitVerificationInput) (*domain.VerificationRequest, error) {
	if strings.TrimSpace(in.EvidencePhoto) == "" {
		return nil, fmt.Errorf("%w: foto_ci is required", domain.ErrInvalidInput)
	}

	user, err := s.users.FindByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if user.VerificationRequestID != nil {
		return nil, domain.ErrDuplicateRequest
	}

	id, err := s.sequences.Next(ctx, verificationSequence)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	req := domain.VerificationRequest{
		ID:            id,
		UserID:        user.ID,
		State:         domain.StatePending,
		Comment:       strings.TrimSpace(in.Comment),
		EvidencePhoto: strings.TrimSpace(in.EvidencePhoto),
		Documents:     in.Documents,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created, err := s.requests.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncSubmitted()
	}
	return created, nil
}

// Approve decides a PENDIENTE request, creating the tutor profile and
// promoting the owning user as one unit of work. The profile identifier is
// allocated before the transaction; if the transaction fails the request
// stays PENDIENTE and the allocated value is discarded (sequence gaps are
// tolerated, duplicates are not).
func (s *VerificationService) Approve(ctx context.Context, requestID int64, comment string) (*domain.VerificationRequest, error) {
	start := time.Now()

	req, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.State.Terminal() {
		return nil, domain.ErrInvalidStateTransition
	}

	profileID, err := s.sequences.Next(ctx, tutorProfileSequence)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	approved, err := s.requests.Approve(ctx, ports.ApprovalParams{
		RequestID: requestID,
		Comment:   strings.TrimSpace(comment),
		DecidedAt: now,
		Profile: domain.TutorProfile{
			ID:        profileID,
			UserID:    req.UserID,
			RequestID: req.ID,
			Verified:  true,
			Rating:    0.0,
			CreatedAt: now,
			UpdatedAt: now,
		},
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncApproved()
		s.metrics.ObserveDecision(start)
	}
	return approved, nil
}

// Reject decides a PENDIENTE request without touching any other entity: no
// profile is created and the user's role is unchanged.
func (s *VerificationService) Reject(ctx context.Context, requestID int64, comment string) (*domain.VerificationRequest, error) {
	start := time.Now()

	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil, fmt.Errorf("%w: rejection comment is required", domain.ErrInvalidInput)
	}

	rejected, err := s.requests.Reject(ctx, requestID, comment, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncRejected()
		s.metrics.ObserveDecision(start)
	}
	return rejected, nil
}

// Delete purges the request record at any state. It is not an undo: an
// already-created tutor profile survives and the user keeps the TUTOR role.
func (s *VerificationService) Delete(ctx context.Context, requestID int64) error {
	if err := s.requests.Delete(ctx, requestID); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.IncDeleted()
	}
	return nil
}

func (s *VerificationService) Get(ctx context.Context, requestID int64) (*domain.VerificationRequest, error) {
	return s.requests.FindByID(ctx, requestID)
}

func (s *VerificationService) GetByUser(ctx context.Context, userID int64) (*domain.VerificationRequest, error) {
	return s.requests.FindByUserID(ctx, userID)
}

func (s *VerificationService) ListByState(ctx context.Context, state domain.RequestState) ([]domain.VerificationRequest, error) {
	if !state.Valid() {
		return nil, fmt.Errorf("%w: unknown state %q", domain.ErrInvalidInput, string(state))
	}
	return s.requests.ListByState(ctx, state)
}

func (s *VerificationService) ListAll(ctx context.Context) ([]domain.VerificationRequest, error) {
	return s.requests.ListAll(ctx)
}
