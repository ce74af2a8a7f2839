package ports

import (
	"context"
	"time"

	"github.com/enseniamelo/tutor-verification-service/internal/core/domain"
)

// SequenceAllocator issues monotonically increasing, collision-free integer
// identifiers per named counter. Counters are created implicitly on first use
// and start at 1. Implementations must perform the increment as a single
// atomic read-modify-write; a separate read followed by a write reintroduces
// the allocation race this component exists to prevent.
type SequenceAllocator interface {
	Next(ctx context.Context, name string) (int64, error)
}

// UserRepository is the read side of the user directory. User writes happen
// only inside the workflow's transactional operations on
// VerificationRepository, so the role can never move backwards.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
}

// ApprovalParams bundles everything the approval transaction writes: the CAS
// transition on the request plus the pre-allocated tutor profile that the
// request and the owning user are linked to.
type ApprovalParams struct {
	RequestID int64
	Comment   string
	DecidedAt time.Time
	Profile   domain.TutorProfile
}

// VerificationRepository owns verification requests and the multi-entity
// writes of the workflow. Create, Approve, Reject and Delete are each a
// single atomic unit of work; Approve and Reject are gated by a
// compare-and-set on state so that of two concurrent decisions exactly one
// observes PENDIENTE and wins.
type VerificationRepository interface {
	// Create inserts the request and links it to the owning user. Returns
	// domain.ErrDuplicateRequest if the user already has one and
	// domain.ErrUserNotFound if the user reference does not resolve.
	Create(ctx context.Context, req domain.VerificationRequest) (*domain.VerificationRequest, error)

	FindByID(ctx context.Context, id int64) (*domain.VerificationRequest, error)
	FindByUserID(ctx context.Context, userID int64) (*domain.VerificationRequest, error)
	ListByState(ctx context.Context, state domain.RequestState) ([]domain.VerificationRequest, error)
	ListAll(ctx context.Context) ([]domain.VerificationRequest, error)

	// Approve transitions PENDIENTE -> APROBADO, creates the tutor profile
	// and promotes the owning user, all in one unit of work. Returns
	// domain.ErrInvalidStateTransition if the request is already terminal.
	Approve(ctx context.Context, params ApprovalParams) (*domain.VerificationRequest, error)

	// Reject transitions PENDIENTE -> RECHAZADO. No other entity is touched.
	Reject(ctx context.Context, id int64, comment string, decidedAt time.Time) (*domain.VerificationRequest, error)

	// Delete purges the request record and clears the owning user's link to
	// it. It does not cascade to an already-created profile or role.
	Delete(ctx context.Context, id int64) error
}

// TutorProfileRepository owns tutor profiles outside the approval path.
type TutorProfileRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.TutorProfile, error)
	FindByUserID(ctx context.Context, userID int64) (*domain.TutorProfile, error)
	ListAll(ctx context.Context) ([]domain.TutorProfile, error)
	UpdateBiography(ctx context.Context, id int64, biography string, updatedAt time.Time) (*domain.TutorProfile, error)
	UpdateRating(ctx context.Context, id int64, rating float64, updatedAt time.Time) (*domain.TutorProfile, error)
}
