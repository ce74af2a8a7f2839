package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/enseniamelo/tutor-verification-service/internal/core/domain"
	"github.com/enseniamelo/tutor-verification-service/internal/core/ports"
)

const (
	minRating = 0.0
	maxRating = 5.0
)

// TutorProfileService covers the profile's life after creation. Profiles are
// only ever created by the verification workflow; here they are read and
// their content updated.
type TutorProfileService struct {
	profiles ports.TutorProfileRepository
}

var _ ports.TutorProfileService = (*TutorProfileService)(nil)

func NewTutorProfileService(profiles ports.TutorProfileRepository) *TutorProfileService {
	return &TutorProfileService{profiles: profiles}
}

func (s *TutorProfileService) Get(ctx context.Context, profileID int64) (*domain.TutorProfile, error) {
	return s.profiles.FindByID(ctx, profileID)
}

func (s *TutorProfileService) GetByUser(ctx context.Context, userID int64) (*domain.TutorProfile, error) {
	return s.profiles.FindByUserID(ctx, userID)
}

func (s *TutorProfileService) ListAll(ctx context.Context) ([]domain.TutorProfile, error) {
	return s.profiles.ListAll(ctx)
}

func (s *TutorProfileService) UpdateBiography(ctx context.Context, profileID int64, biography string) (*domain.TutorProfile, error) {
	return s.profiles.UpdateBiography(ctx, profileID, strings.TrimSpace(biography), time.Now().UTC())
}

func (s *TutorProfileService) UpdateRating(ctx context.Context, profileID int64, rating float64) (*domain.TutorProfile, error) {
	if rating < minRating || rating > maxRating {
		return nil, fmt.Errorf("%w: rating %.2f out of range [%.1f, %.1f]", domain.ErrInvalidInput, rating, minRating, maxRating)
	}
	return s.profiles.UpdateRating(ctx, profileID, rating, time.Now().UTC())
}
