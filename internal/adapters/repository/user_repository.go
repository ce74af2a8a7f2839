package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/enseniamelo/tutor-verification-service/internal/core/domain"
	"github.com/enseniamelo/tutor-verification-service/internal/core/ports"
)

// UserRepository reads the canonical user records. All user writes performed
// by this service happen inside VerificationRepository transactions so the
// role only ever moves STUDENT -> TUTOR together with the request decision.
type UserRepository struct {
	db *sql.DB
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, first_name, last_name, role,
		       verification_request_id, tutor_profile_id,
		       created_at, updated_at
		FROM users
		WHERE id = $1`,
		id,
	).Scan(
		&user.ID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Role,
		&user.VerificationRequestID,
		&user.TutorProfileID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, storageErr("find user", err)
	}
	return &user, nil
}
