// Package mocks provides mock implementations of port interfaces for testing.
// In hexagonal architecture, ports define the contracts between the core domain
// and external adapters. Mocks implement these interfaces to enable isolated testing.
package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/enseniamelo/tutor-verification-service/internal/core/domain"
	"github.com/enseniamelo/tutor-verification-service/internal/core/ports"
)

// MockUserRepository implements ports.UserRepository with in-memory storage.
type MockUserRepository struct {
	mu sync.RWMutex

	users map[int64]*domain.User

	// Call tracking for verification
	FindByIDCalls []int64

	// Error injection for testing error scenarios
	FindByIDError error
}

var _ ports.UserRepository = (*MockUserRepository)(nil)

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[int64]*domain.User),
	}
}

// SeedUser adds a user to the mock repository for test setup.
func (m *MockUserRepository) SeedUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.FindByIDCalls = append(m.FindByIDCalls, id)

	if m.FindByIDError != nil {
		return nil, m.FindByIDError
	}

	user, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

// MockVerificationRepository implements ports.VerificationRepository. Its
// Approve/Reject methods reproduce the compare-and-set semantics of the real
// adapter: a request that is not PENDIENTE loses with
// domain.ErrInvalidStateTransition, so concurrency tests exercise the same
// exactly-one-wins behavior the database enforces in production.
type MockVerificationRepository struct {
	mu sync.Mutex

	requests map[int64]*domain.VerificationRequest
	users    *MockUserRepository
	profiles *MockTutorProfileRepository

	// Call tracking for verification
	CreateCalls  []domain.VerificationRequest
	ApproveCalls []ports.ApprovalParams
	RejectCalls  []int64
	DeleteCalls  []int64

	// Error injection for testing error scenarios
	CreateError  error
	FindError    error
	ApproveError error
	RejectError  error
	DeleteError  error
}

var _ ports.VerificationRepository = (*MockVerificationRepository)(nil)

// NewMockVerificationRepository wires the request store to the user and
// profile mocks so cross-entity effects (role promotion, profile creation,
// request links) are observable from tests. Either collaborator may be nil.
func NewMockVerificationRepository(users *MockUserRepository, profiles *MockTutorProfileRepository) *MockVerificationRepository {
	return &MockVerificationRepository{
		requests: make(map[int64]*domain.VerificationRequest),
		users:    users,
		profiles: profiles,
	}
}

// SeedRequest adds a request to the mock repository for test setup.
func (m *MockVerificationRepository) SeedRequest(req *domain.VerificationRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[req.ID] = req
}

func (m *MockVerificationRepository) Create(ctx context.Context, req domain.VerificationRequest) (*domain.VerificationRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateCalls = append(m.CreateCalls, req)

	if m.CreateError != nil {
		return nil, m.CreateError
	}

	for _, existing := range m.requests {
		if existing.UserID == req.UserID {
			return nil, domain.ErrDuplicateRequest
		}
	}

	if m.users != nil {
		user, ok := m.users.users[req.UserID]
		if !ok {
			return nil, domain.ErrUserNotFound
		}
		user.VerificationRequestID = &req.ID
	}

	stored := req
	m.requests[req.ID] = &stored
	copied := stored
	return &copied, nil
}

func (m *MockVerificationRepository) FindByID(ctx context.Context, id int64) (*domain.VerificationRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FindError != nil {
		return nil, m.FindError
	}

	req, ok := m.requests[id]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	copied := *req
	return &copied, nil
}

func (m *MockVerificationRepository) FindByUserID(ctx context.Context, userID int64) (*domain.VerificationRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FindError != nil {
		return nil, m.FindError
	}

	for _, req := range m.requests {
		if req.UserID == userID {
			copied := *req
			return &copied, nil
		}
	}
	return nil, domain.ErrRequestNotFound
}

func (m *MockVerificationRepository) ListByState(ctx context.Context, state domain.RequestState) ([]domain.VerificationRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FindError != nil {
		return nil, m.FindError
	}

	var out []domain.VerificationRequest
	for _, req := range m.requests {
		if req.State == state {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (m *MockVerificationRepository) ListAll(ctx context.Context) ([]domain.VerificationRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FindError != nil {
		return nil, m.FindError
	}

	var out []domain.VerificationRequest
	for _, req := range m.requests {
		out = append(out, *req)
	}
	return out, nil
}

func (m *MockVerificationRepository) Approve(ctx context.Context, params ports.ApprovalParams) (*domain.VerificationRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ApproveCalls = append(m.ApproveCalls, params)

	if m.ApproveError != nil {
		return nil, m.ApproveError
	}

	req, ok := m.requests[params.RequestID]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	if req.State != domain.StatePending {
		return nil, domain.ErrInvalidStateTransition
	}

	req.State = domain.StateApproved
	if params.Comment != "" {
		req.Comment = params.Comment
	}
	decidedAt := params.DecidedAt
	req.DecidedAt = &decidedAt
	req.UpdatedAt = params.DecidedAt
	profileID := params.Profile.ID
	req.TutorProfileID = &profileID

	if m.profiles != nil {
		profile := params.Profile
		m.profiles.profiles[profile.ID] = &profile
	}
	if m.users != nil {
		if user, ok := m.users.users[req.UserID]; ok {
			user.Role = domain.RoleTutor
			user.TutorProfileID = &profileID
		}
	}

	copied := *req
	return &copied, nil
}

func (m *MockVerificationRepository) Reject(ctx context.Context, id int64, comment string, decidedAt time.Time) (*domain.VerificationRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RejectCalls = append(m.RejectCalls, id)

	if m.RejectError != nil {
		return nil, m.RejectError
	}

	req, ok := m.requests[id]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	if req.State != domain.StatePending {
		return nil, domain.ErrInvalidStateTransition
	}

	req.State = domain.StateRejected
	if comment != "" {
		req.Comment = comment
	}
	req.DecidedAt = &decidedAt
	req.UpdatedAt = decidedAt

	copied := *req
	return &copied, nil
}

func (m *MockVerificationRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeleteCalls = append(m.DeleteCalls, id)

	if m.DeleteError != nil {
		return m.DeleteError
	}

	req, ok := m.requests[id]
	if !ok {
		return domain.ErrRequestNotFound
	}
	delete(m.requests, id)

	if m.users != nil {
		if user, ok := m.users.users[req.UserID]; ok {
			user.VerificationRequestID = nil
		}
	}
	return nil
}

// MockTutorProfileRepository implements ports.TutorProfileRepository.
type MockTutorProfileRepository struct {
	mu sync.RWMutex

	profiles map[int64]*domain.TutorProfile

	// Error injection for testing error scenarios
	FindError   error
	UpdateError error
}

var _ ports.TutorProfileRepository = (*MockTutorProfileRepository)(nil)

func NewMockTutorProfileRepository() *MockTutorProfileRepository {
	return &MockTutorProfileRepository{
		profiles: make(map[int64]*domain.TutorProfile),
	}
}

// SeedProfile adds a profile to the mock repository for test setup.
func (m *MockTutorProfileRepository) SeedProfile(profile *domain.TutorProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[profile.ID] = profile
}

func (m *MockTutorProfileRepository) FindByID(ctx context.Context, id int64) (*domain.TutorProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.FindError != nil {
		return nil, m.FindError
	}

	profile, ok := m.profiles[id]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	copied := *profile
	return &copied, nil
}

func (m *MockTutorProfileRepository) FindByUserID(ctx context.Context, userID int64) (*domain.TutorProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.FindError != nil {
		return nil, m.FindError
	}

	for _, profile := range m.profiles {
		if profile.UserID == userID {
			copied := *profile
			return &copied, nil
		}
	}
	return nil, domain.ErrProfileNotFound
}

func (m *MockTutorProfileRepository) ListAll(ctx context.Context) ([]domain.TutorProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.FindError != nil {
		return nil, m.FindError
	}

	var out []domain.TutorProfile
	for _, profile := range m.profiles {
		out = append(out, *profile)
	}
	return out, nil
}

func (m *MockTutorProfileRepository) UpdateBiography(ctx context.Context, id int64, biography string, updatedAt time.Time) (*domain.TutorProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UpdateError != nil {
		return nil, m.UpdateError
	}

	profile, ok := m.profiles[id]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	profile.Biography = biography
	profile.UpdatedAt = updatedAt
	copied := *profile
	return &copied, nil
}

func (m *MockTutorProfileRepository) UpdateRating(ctx context.Context, id int64, rating float64, updatedAt time.Time) (*domain.TutorProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UpdateError != nil {
		return nil, m.UpdateError
	}

	profile, ok := m.profiles[id]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	profile.Rating = rating
	profile.UpdatedAt = updatedAt
	copied := *profile
	return &copied, nil
}

// MockSequenceAllocator implements ports.SequenceAllocator with per-name
// counters guarded by one mutex, mirroring the atomicity of the real
// single-statement upsert.
type MockSequenceAllocator struct {
	mu sync.Mutex

	counters map[string]int64

	// Call tracking for verification
	NextCalls []string

	// Error injection for testing error scenarios
	NextError error
}

var _ ports.SequenceAllocator = (*MockSequenceAllocator)(nil)

func NewMockSequenceAllocator() *MockSequenceAllocator {
	return &MockSequenceAllocator{
		counters: make(map[string]int64),
	}
}

func (m *MockSequenceAllocator) Next(ctx context.Context, name string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.NextCalls = append(m.NextCalls, name)

	if m.NextError != nil {
		return 0, m.NextError
	}

	m.counters[name]++
	return m.counters[name], nil
}
