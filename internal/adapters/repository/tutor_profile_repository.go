package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/enseniamelo/tutor-verification-service/internal/core/domain"
	"github.com/enseniamelo/tutor-verification-service/internal/core/ports"
)

// TutorProfileRepository serves profile reads and content updates. Profile
// creation lives in VerificationRepository.Approve, inside the promotion
// transaction.
type TutorProfileRepository struct {
	db *sql.DB
}

var _ ports.TutorProfileRepository = (*TutorProfileRepository)(nil)

func NewTutorProfileRepository(db *sql.DB) *TutorProfileRepository {
	return &TutorProfileRepository{db: db}
}

const profileColumns = `
	id, user_id, request_id, verified, rating, biography, created_at, updated_at`

func scanProfile(row interface{ Scan(...any) error }) (*domain.TutorProfile, error) {
	var p domain.TutorProfile
	var biography sql.NullString
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.RequestID,
		&p.Verified,
		&p.Rating,
		&biography,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Biography = biography.String
	return &p, nil
}

func (r *TutorProfileRepository) FindByID(ctx context.Context, id int64) (*domain.TutorProfile, error) {
	p, err := scanProfile(r.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM tutor_profiles WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, storageErr("find profile", err)
	}
	return p, nil
}

func (r *TutorProfileRepository) FindByUserID(ctx context.Context, userID int64) (*domain.TutorProfile, error) {
	p, err := scanProfile(r.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM tutor_profiles WHERE user_id = $1`, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, storageErr("find profile by user", err)
	}
	return p, nil
}

func (r *TutorProfileRepository) ListAll(ctx context.Context) ([]domain.TutorProfile, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+profileColumns+` FROM tutor_profiles ORDER BY created_at`)
	if err != nil {
		return nil, storageErr("list profiles", err)
	}
	defer rows.Close()

	var out []domain.TutorProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, storageErr("list profiles: scan", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list profiles", err)
	}
	return out, nil
}

func (r *TutorProfileRepository) UpdateBiography(ctx context.Context, id int64, biography string, updatedAt time.Time) (*domain.TutorProfile, error) {
	return r.update(ctx, `
		UPDATE tutor_profiles
		SET biography = $1, updated_at = $2
		WHERE id = $3
		RETURNING `+profileColumns,
		biography, updatedAt, id)
}

func (r *TutorProfileRepository) UpdateRating(ctx context.Context, id int64, rating float64, updatedAt time.Time) (*domain.TutorProfile, error) {
	return r.update(ctx, `
		UPDATE tutor_profiles
		SET rating = $1, updated_at = $2
		WHERE id = $3
		RETURNING `+profileColumns,
		rating, updatedAt, id)
}

func (r *TutorProfileRepository) update(ctx context.Context, query string, args ...any) (*domain.TutorProfile, error) {
	p, err := scanProfile(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, storageErr("update profile", err)
	}
	return p, nil
}
