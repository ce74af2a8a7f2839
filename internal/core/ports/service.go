package ports

import (
	"context"

	"github.com/enseniamelo/tutor-verification-service/internal/core/domain"
)

// SubmitVerificationInput carries a user's application to become a tutor.
type SubmitVerificationInput struct {
	UserID        int64
	EvidencePhoto string
	Comment       string
	Documents     []string
}

// VerificationService is the narrow interface both the REST handlers and the
// event consumer drive. Decisions on an already-terminal request uniformly
// fail with domain.ErrInvalidStateTransition and have no side effects, which
// makes redelivery of decision events safe.
type VerificationService interface {
	Submit(ctx context.Context, in SubmitVerificationInput) (*domain.VerificationRequest, error)
	Approve(ctx context.Context, requestID int64, comment string) (*domain.VerificationRequest, error)
	Reject(ctx context.Context, requestID int64, comment string) (*domain.VerificationRequest, error)
	Delete(ctx context.Context, requestID int64) error

	Get(ctx context.Context, requestID int64) (*domain.VerificationRequest, error)
	GetByUser(ctx context.Context, userID int64) (*domain.VerificationRequest, error)
	ListByState(ctx context.Context, state domain.RequestState) ([]domain.VerificationRequest, error)
	ListAll(ctx context.Context) ([]domain.VerificationRequest, error)
}

// TutorProfileService mutates profile content outside the approval path.
type TutorProfileService interface {
	Get(ctx context.Context, profileID int64) (*domain.TutorProfile, error)
	GetByUser(ctx context.Context, userID int64) (*domain.TutorProfile, error)
	ListAll(ctx context.Context) ([]domain.TutorProfile, error)
	UpdateBiography(ctx context.Context, profileID int64, biography string) (*domain.TutorProfile, error)
	UpdateRating(ctx context.Context, profileID int64, rating float64) (*domain.TutorProfile, error)
}
