// Package unit contains unit tests for the core services. The services are
// exercised against the in-memory mocks, which reproduce the atomicity
// semantics of the real adapters (unique request per user, compare-and-set
// state transitions, atomic sequence increments).
package unit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/enseniamelo/tutor-verification-service/internal/core/domain"
	"github.com/enseniamelo/tutor-verification-service/internal/core/ports"
	"github.com/enseniamelo/tutor-verification-service/internal/core/services"
	"github.com/enseniamelo/tutor-verification-service/test/mocks"
)

type verificationFixture struct {
	users     *mocks.MockUserRepository
	requests  *mocks.MockVerificationRepository
	profiles  *mocks.MockTutorProfileRepository
	sequences *mocks.MockSequenceAllocator
	service   *services.VerificationService
}

func newVerificationFixture() *verificationFixture {
	users := mocks.NewMockUserRepository()
	profiles := mocks.NewMockTutorProfileRepository()
	requests := mocks.NewMockVerificationRepository(users, profiles)
	sequences := mocks.NewMockSequenceAllocator()

	return &verificationFixture{
		users:     users,
		requests:  requests,
		profiles:  profiles,
		sequences: sequences,
		service:   services.NewVerificationService(users, requests, sequences, nil),
	}
}

func (f *verificationFixture) seedStudent(id int64) *domain.User {
	user := &domain.User{
		ID:        id,
		Email:     "student@example.com",
		FirstName: "Ana",
		LastName:  "Quispe",
		Role:      domain.RoleStudent,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	f.users.SeedUser(user)
	return user
}

func (f *verificationFixture) submit(t *testing.T, userID int64) *domain.VerificationRequest {
	t.Helper()
	req, err := f.service.Submit(context.Background(), ports.SubmitVerificationInput{
		UserID:        userID,
		EvidencePhoto: "https://cdn.example.com/ci/123.jpg",
		Documents:     []string{"https://cdn.example.com/docs/title.pdf"},
	})
	if err != nil {
		t.Fatalf("submit: unexpected error: %v", err)
	}
	return req
}

func TestVerificationService_Submit(t *testing.T) {
	tests := []struct {
		name        string
		input       ports.SubmitVerificationInput
		setup       func(*verificationFixture)
		expectedErr error
	}{
		{
			name: "successful_submission",
			input: ports.SubmitVerificationInput{
				UserID:        1,
				EvidencePhoto: "https://cdn.example.com/ci/1.jpg",
				Comment:       "  quiero ser tutor  ",
			},
			setup: func(f *verificationFixture) {
				f.seedStudent(1)
			},
		},
		{
			name: "missing_evidence_photo",
			input: ports.SubmitVerificationInput{
				UserID:        1,
				EvidencePhoto: "   ",
			},
			setup: func(f *verificationFixture) {
				f.seedStudent(1)
			},
			expectedErr: domain.ErrInvalidInput,
		},
		{
			name: "unknown_user",
			input: ports.SubmitVerificationInput{
				UserID:        42,
				EvidencePhoto: "https://cdn.example.com/ci/42.jpg",
			},
			setup:       func(f *verificationFixture) {},
			expectedErr: domain.ErrUserNotFound,
		},
		{
			name: "user_already_has_request",
			input: ports.SubmitVerificationInput{
				UserID:        1,
				EvidencePhoto: "https://cdn.example.com/ci/1.jpg",
			},
			setup: func(f *verificationFixture) {
				f.seedStudent(1)
				f.submit(t, 1)
			},
			expectedErr: domain.ErrDuplicateRequest,
		},
		{
			name: "sequence_allocation_fails",
			input: ports.SubmitVerificationInput{
				UserID:        1,
				EvidencePhoto: "https://cdn.example.com/ci/1.jpg",
			},
			setup: func(f *verificationFixture) {
				f.seedStudent(1)
				f.sequences.NextError = domain.ErrStorageUnavailable
			},
			expectedErr: domain.ErrStorageUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newVerificationFixture()
			tt.setup(f)

			req, err := f.service.Submit(context.Background(), tt.input)

			if tt.expectedErr != nil {
				if !errors.Is(err, tt.expectedErr) {
					t.Fatalf("expected error %v, got %v", tt.expectedErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if req.State != domain.StatePending {
				t.Errorf("expected state %q, got %q", domain.StatePending, req.State)
			}
			if req.ID == 0 {
				t.Error("expected a non-zero request id")
			}
			if req.Comment != "quiero ser tutor" {
				t.Errorf("expected trimmed comment, got %q", req.Comment)
			}
			if req.DecidedAt != nil {
				t.Error("a fresh request must not carry a decision timestamp")
			}
		})
	}
}

// TestVerificationService_SubmitAssignsSequentialIDs verifies that each
// accepted request gets its own identifier from the request counter.
func TestVerificationService_SubmitAssignsSequentialIDs(t *testing.T) {
	f := newVerificationFixture()
	f.seedStudent(1)
	f.seedStudent(2)

	first := f.submit(t, 1)
	second := f.submit(t, 2)

	if first.ID == second.ID {
		t.Fatalf("two requests share id %d", first.ID)
	}
	if second.ID != first.ID+1 {
		t.Errorf("expected contiguous ids, got %d then %d", first.ID, second.ID)
	}
}

func TestVerificationService_Approve(t *testing.T) {
	f := newVerificationFixture()
	user := f.seedStudent(1)
	req := f.submit(t, 1)

	approved, err := f.service.Approve(context.Background(), req.ID, "looks good")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if approved.State != domain.StateApproved {
		t.Errorf("expected state %q, got %q", domain.StateApproved, approved.State)
	}
	if approved.DecidedAt == nil {
		t.Error("expected a decision timestamp")
	}
	if approved.TutorProfileID == nil {
		t.Fatal("expected the request to reference the created profile")
	}
	if approved.Comment != "looks good" {
		t.Errorf("expected decision comment to be recorded, got %q", approved.Comment)
	}

	profile, err := f.profiles.FindByID(context.Background(), *approved.TutorProfileID)
	if err != nil {
		t.Fatalf("expected profile to exist: %v", err)
	}
	if !profile.Verified {
		t.Error("expected a verified profile")
	}
	if profile.Rating != 0 {
		t.Errorf("expected initial rating 0, got %v", profile.Rating)
	}
	if profile.UserID != user.ID {
		t.Errorf("profile belongs to user %d, expected %d", profile.UserID, user.ID)
	}
	if profile.RequestID != req.ID {
		t.Errorf("profile references request %d, expected %d", profile.RequestID, req.ID)
	}

	promoted, err := f.users.FindByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if promoted.Role != domain.RoleTutor {
		t.Errorf("expected role %q, got %q", domain.RoleTutor, promoted.Role)
	}
	if promoted.TutorProfileID == nil || *promoted.TutorProfileID != profile.ID {
		t.Error("expected user to reference the created profile")
	}
}

func TestVerificationService_ApproveErrors(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(*verificationFixture) int64
		expectedErr error
	}{
		{
			name: "request_not_found",
			setup: func(f *verificationFixture) int64 {
				return 99
			},
			expectedErr: domain.ErrRequestNotFound,
		},
		{
			name: "already_approved",
			setup: func(f *verificationFixture) int64 {
				f.seedStudent(1)
				req := f.submit(t, 1)
				if _, err := f.service.Approve(context.Background(), req.ID, ""); err != nil {
					t.Fatalf("first approve failed: %v", err)
				}
				return req.ID
			},
			expectedErr: domain.ErrInvalidStateTransition,
		},
		{
			name: "already_rejected",
			setup: func(f *verificationFixture) int64 {
				f.seedStudent(1)
				req := f.submit(t, 1)
				if _, err := f.service.Reject(context.Background(), req.ID, "incomplete documents"); err != nil {
					t.Fatalf("reject failed: %v", err)
				}
				return req.ID
			},
			expectedErr: domain.ErrInvalidStateTransition,
		},
		{
			name: "sequence_allocation_fails",
			setup: func(f *verificationFixture) int64 {
				f.seedStudent(1)
				req := f.submit(t, 1)
				f.sequences.NextError = domain.ErrStorageUnavailable
				return req.ID
			},
			expectedErr: domain.ErrStorageUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newVerificationFixture()
			id := tt.setup(f)

			_, err := f.service.Approve(context.Background(), id, "")
			if !errors.Is(err, tt.expectedErr) {
				t.Fatalf("expected error %v, got %v", tt.expectedErr, err)
			}
		})
	}
}

func TestVerificationService_Reject(t *testing.T) {
	f := newVerificationFixture()
	user := f.seedStudent(1)
	req := f.submit(t, 1)

	rejected, err := f.service.Reject(context.Background(), req.ID, "blurry evidence photo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rejected.State != domain.StateRejected {
		t.Errorf("expected state %q, got %q", domain.StateRejected, rejected.State)
	}
	if rejected.Comment != "blurry evidence photo" {
		t.Errorf("expected rejection comment, got %q", rejected.Comment)
	}
	if rejected.TutorProfileID != nil {
		t.Error("rejection must not create a profile")
	}

	unchanged, err := f.users.FindByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if unchanged.Role != domain.RoleStudent {
		t.Errorf("rejection must not change the role, got %q", unchanged.Role)
	}
}

func TestVerificationService_RejectRequiresComment(t *testing.T) {
	f := newVerificationFixture()
	f.seedStudent(1)
	req := f.submit(t, 1)

	_, err := f.service.Reject(context.Background(), req.ID, "   ")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected %v, got %v", domain.ErrInvalidInput, err)
	}

	still, err := f.service.Get(context.Background(), req.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if still.State != domain.StatePending {
		t.Errorf("request must stay pending, got %q", still.State)
	}
}

func TestVerificationService_Delete(t *testing.T) {
	f := newVerificationFixture()
	user := f.seedStudent(1)
	req := f.submit(t, 1)

	if err := f.service.Delete(context.Background(), req.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.service.Get(context.Background(), req.ID); !errors.Is(err, domain.ErrRequestNotFound) {
		t.Fatalf("expected %v after delete, got %v", domain.ErrRequestNotFound, err)
	}

	// The user's link is cleared, so a fresh submission is possible.
	cleared, err := f.users.FindByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cleared.VerificationRequestID != nil {
		t.Error("expected the user's request link to be cleared")
	}

	resubmitted := f.submit(t, user.ID)
	if resubmitted.State != domain.StatePending {
		t.Errorf("expected fresh pending request, got %q", resubmitted.State)
	}
}

// TestVerificationService_SubmitAfterRejectionBlocked verifies that
// first-request-wins also covers terminal requests: a rejected request still
// blocks resubmission, only an explicit delete frees the user.
func TestVerificationService_SubmitAfterRejectionBlocked(t *testing.T) {
	f := newVerificationFixture()
	user := f.seedStudent(1)
	req := f.submit(t, 1)

	if _, err := f.service.Reject(context.Background(), req.ID, "incomplete documents"); err != nil {
		t.Fatalf("reject failed: %v", err)
	}

	_, err := f.service.Submit(context.Background(), ports.SubmitVerificationInput{
		UserID:        user.ID,
		EvidencePhoto: "https://cdn.example.com/ci/retry.jpg",
	})
	if !errors.Is(err, domain.ErrDuplicateRequest) {
		t.Fatalf("expected %v after rejection, got %v", domain.ErrDuplicateRequest, err)
	}

	// The rejected request is untouched by the failed attempt.
	still, err := f.service.Get(context.Background(), req.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if still.State != domain.StateRejected {
		t.Errorf("expected state %q, got %q", domain.StateRejected, still.State)
	}
}

// TestVerificationService_DeleteApprovedKeepsProfileAndRole verifies delete
// is not an undo: purging an approved request leaves the tutor profile and
// the promoted role in place.
func TestVerificationService_DeleteApprovedKeepsProfileAndRole(t *testing.T) {
	f := newVerificationFixture()
	user := f.seedStudent(1)
	req := f.submit(t, 1)

	approved, err := f.service.Approve(context.Background(), req.ID, "")
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	profileID := *approved.TutorProfileID

	if err := f.service.Delete(context.Background(), req.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.service.Get(context.Background(), req.ID); !errors.Is(err, domain.ErrRequestNotFound) {
		t.Fatalf("expected %v after delete, got %v", domain.ErrRequestNotFound, err)
	}

	profile, err := f.profiles.FindByID(context.Background(), profileID)
	if err != nil {
		t.Fatalf("profile must survive the delete: %v", err)
	}
	if !profile.Verified {
		t.Error("surviving profile must stay verified")
	}

	kept, err := f.users.FindByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kept.Role != domain.RoleTutor {
		t.Errorf("delete must not demote the user, got role %q", kept.Role)
	}
	if kept.TutorProfileID == nil || *kept.TutorProfileID != profileID {
		t.Error("delete must not clear the user's profile reference")
	}
	if kept.VerificationRequestID != nil {
		t.Error("expected the user's request link to be cleared")
	}
}

func TestVerificationService_DeleteUnknownRequest(t *testing.T) {
	f := newVerificationFixture()

	if err := f.service.Delete(context.Background(), 404); !errors.Is(err, domain.ErrRequestNotFound) {
		t.Fatalf("expected %v, got %v", domain.ErrRequestNotFound, err)
	}
}

func TestVerificationService_ListByState(t *testing.T) {
	f := newVerificationFixture()
	f.seedStudent(1)
	f.seedStudent(2)
	first := f.submit(t, 1)
	f.submit(t, 2)

	if _, err := f.service.Approve(context.Background(), first.ID, ""); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	pending, err := f.service.ListByState(context.Background(), domain.StatePending)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pending) != 1 {
		t.Errorf("expected 1 pending request, got %d", len(pending))
	}

	approved, err := f.service.ListByState(context.Background(), domain.StateApproved)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(approved) != 1 {
		t.Errorf("expected 1 approved request, got %d", len(approved))
	}

	if _, err := f.service.ListByState(context.Background(), "NO_SUCH_STATE"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected %v for unknown state, got %v", domain.ErrInvalidInput, err)
	}
}

// TestVerificationService_ConcurrentDecisions verifies that of a simultaneous
// approve and reject on the same pending request exactly one wins; the loser
// observes the conflict error and writes nothing.
func TestVerificationService_ConcurrentDecisions(t *testing.T) {
	f := newVerificationFixture()
	user := f.seedStudent(1)
	req := f.submit(t, 1)

	var wg sync.WaitGroup
	errs := make([]error, 2)

	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = f.service.Approve(context.Background(), req.ID, "")
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = f.service.Reject(context.Background(), req.ID, "not eligible")
	}()
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else if !errors.Is(err, domain.ErrInvalidStateTransition) {
			t.Errorf("loser must fail with %v, got %v", domain.ErrInvalidStateTransition, err)
		}
	}
	if winners != 1 {
		t.Fatalf("expected exactly one winner, got %d", winners)
	}

	final, err := f.service.Get(context.Background(), req.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !final.State.Terminal() {
		t.Errorf("expected a terminal state, got %q", final.State)
	}

	// If the approval lost, the user must still be a student.
	decided, err := f.users.FindByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if final.State == domain.StateRejected && decided.Role != domain.RoleStudent {
		t.Errorf("rejected request must leave role unchanged, got %q", decided.Role)
	}
	if final.State == domain.StateApproved && decided.Role != domain.RoleTutor {
		t.Errorf("approved request must promote the user, got %q", decided.Role)
	}
}

// TestSequenceAllocator_ConcurrentNext verifies the allocator contract the
// workflow depends on: N concurrent calls on one counter yield N distinct
// values.
func TestSequenceAllocator_ConcurrentNext(t *testing.T) {
	allocator := mocks.NewMockSequenceAllocator()

	const numGoroutines = 50
	values := make([]int64, numGoroutines)

	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(n int) {
			defer wg.Done()
			v, err := allocator.Next(context.Background(), "verificar_solicitud_sequence")
			if err != nil {
				t.Errorf("goroutine %d: unexpected error: %v", n, err)
				return
			}
			values[n] = v
		}(i)
	}
	wg.Wait()

	seen := make(map[int64]bool, numGoroutines)
	for _, v := range values {
		if v < 1 || v > numGoroutines {
			t.Errorf("value %d outside expected range [1,%d]", v, numGoroutines)
		}
		if seen[v] {
			t.Errorf("value %d allocated twice", v)
		}
		seen[v] = true
	}
}

// TestSequenceAllocator_IndependentCounters verifies counters do not share
// state.
func TestSequenceAllocator_IndependentCounters(t *testing.T) {
	allocator := mocks.NewMockSequenceAllocator()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := allocator.Next(ctx, "verificar_solicitud_sequence"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	v, err := allocator.Next(ctx, "perfil_tutor_sequence")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 1 {
		t.Errorf("expected fresh counter to start at 1, got %d", v)
	}
}
