package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/enseniamelo/tutor-verification-service/internal/core/domain"
	"github.com/enseniamelo/tutor-verification-service/internal/core/ports"
)

// VerificationRepository owns verification requests plus the workflow's
// multi-entity writes. Every write method is one database transaction that
// also enqueues the matching outbox event, so the relay only ever publishes
// state that actually committed.
type VerificationRepository struct {
	db *sql.DB
}

var _ ports.VerificationRepository = (*VerificationRepository)(nil)

func NewVerificationRepository(db *sql.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

const requestColumns = `
	id, user_id, state, comment, foto_ci, documents,
	tutor_profile_id, created_at, decided_at, updated_at`

func scanRequest(row interface{ Scan(...any) error }) (*domain.VerificationRequest, error) {
	var req domain.VerificationRequest
	var comment sql.NullString
	err := row.Scan(
		&req.ID,
		&req.UserID,
		&req.State,
		&comment,
		&req.EvidencePhoto,
		pq.Array(&req.Documents),
		&req.TutorProfileID,
		&req.CreatedAt,
		&req.DecidedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	req.Comment = comment.String
	return &req, nil
}

// Create inserts the request and links the owning user in one transaction.
// The unique index on user_id is the authoritative guard for the one-request-
// per-user invariant; concurrent submissions race on it, not on an
// application-level read.
func (r *VerificationRepository) Create(ctx context.Context, req domain.VerificationRequest) (*domain.VerificationRequest, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storageErr("create request: begin", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO verification_requests
			(id, user_id, state, comment, foto_ci, documents, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		req.ID, req.UserID, req.State, req.Comment, req.EvidencePhoto,
		pq.Array(req.Documents), req.CreatedAt, req.UpdatedAt,
	)
	switch pgErrCode(err) {
	case "":
		if err != nil {
			return nil, storageErr("create request", err)
		}
	case pgUniqueViolation:
		return nil, domain.ErrDuplicateRequest
	case pgForeignKeyViolation:
		return nil, domain.ErrUserNotFound
	default:
		return nil, storageErr("create request", err)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE users
		SET verification_request_id = $1, updated_at = $2
		WHERE id = $3`,
		req.ID, req.UpdatedAt, req.UserID,
	)
	if err != nil {
		return nil, storageErr("create request: link user", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrUserNotFound
	}

	if err := insertOutboxEvent(ctx, tx, ports.EventVerificationSubmitted, ports.VerificationEvent{
		RequestID: req.ID,
		UserID:    req.UserID,
		State:     string(req.State),
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, storageErr("create request: commit", err)
	}
	return &req, nil
}

func (r *VerificationRepository) FindByID(ctx context.Context, id int64) (*domain.VerificationRequest, error) {
	req, err := scanRequest(r.db.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM verification_requests WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRequestNotFound
	}
	if err != nil {
		return nil, storageErr("find request", err)
	}
	return req, nil
}

func (r *VerificationRepository) FindByUserID(ctx context.Context, userID int64) (*domain.VerificationRequest, error) {
	req, err := scanRequest(r.db.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM verification_requests WHERE user_id = $1`, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRequestNotFound
	}
	if err != nil {
		return nil, storageErr("find request by user", err)
	}
	return req, nil
}

func (r *VerificationRepository) ListByState(ctx context.Context, state domain.RequestState) ([]domain.VerificationRequest, error) {
	return r.list(ctx,
		`SELECT `+requestColumns+` FROM verification_requests WHERE state = $1 ORDER BY created_at`, state)
}

func (r *VerificationRepository) ListAll(ctx context.Context) ([]domain.VerificationRequest, error) {
	return r.list(ctx,
		`SELECT `+requestColumns+` FROM verification_requests ORDER BY created_at`)
}

func (r *VerificationRepository) list(ctx context.Context, query string, args ...any) ([]domain.VerificationRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list requests", err)
	}
	defer rows.Close()

	var out []domain.VerificationRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, storageErr("list requests: scan", err)
		}
		out = append(out, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list requests", err)
	}
	return out, nil
}

// Approve performs the whole promotion as one transaction:
//
//  1. compare-and-set the request PENDIENTE -> APROBADO
//  2. insert the tutor profile (so no reference ever points at a profile
//     that does not exist yet)
//  3. link the request to the profile
//  4. promote the owning user to TUTOR and link the profile
//
// Of two concurrent decisions only one passes step 1; the loser rolls back
// having written nothing.
func (r *VerificationRepository) Approve(ctx context.Context, params ports.ApprovalParams) (*domain.VerificationRequest, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storageErr("approve: begin", err)
	}
	defer tx.Rollback()

	if err := r.claimPending(ctx, tx, params.RequestID, domain.StateApproved, params.Comment, params.DecidedAt); err != nil {
		return nil, err
	}

	profile := params.Profile
	_, err = tx.ExecContext(ctx, `
		INSERT INTO tutor_profiles
			(id, user_id, request_id, verified, rating, biography, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		profile.ID, profile.UserID, profile.RequestID, profile.Verified,
		profile.Rating, profile.Biography, profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		return nil, storageErr("approve: create profile", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE verification_requests
		SET tutor_profile_id = $1
		WHERE id = $2`,
		profile.ID, params.RequestID,
	); err != nil {
		return nil, storageErr("approve: link profile", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE users
		SET role = $1, tutor_profile_id = $2, updated_at = $3
		WHERE id = $4`,
		domain.RoleTutor, profile.ID, params.DecidedAt, profile.UserID,
	); err != nil {
		return nil, storageErr("approve: promote user", err)
	}

	approved, err := scanRequest(tx.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM verification_requests WHERE id = $1`, params.RequestID))
	if err != nil {
		return nil, storageErr("approve: reload request", err)
	}

	if err := insertOutboxEvent(ctx, tx, ports.EventVerificationApproved, ports.VerificationEvent{
		RequestID:      approved.ID,
		UserID:         approved.UserID,
		State:          string(approved.State),
		TutorProfileID: approved.TutorProfileID,
		Comment:        approved.Comment,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, storageErr("approve: commit", err)
	}
	return approved, nil
}

// Reject is the same compare-and-set transition without any side entity.
func (r *VerificationRepository) Reject(ctx context.Context, id int64, comment string, decidedAt time.Time) (*domain.VerificationRequest, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storageErr("reject: begin", err)
	}
	defer tx.Rollback()

	if err := r.claimPending(ctx, tx, id, domain.StateRejected, comment, decidedAt); err != nil {
		return nil, err
	}

	rejected, err := scanRequest(tx.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM verification_requests WHERE id = $1`, id))
	if err != nil {
		return nil, storageErr("reject: reload request", err)
	}

	if err := insertOutboxEvent(ctx, tx, ports.EventVerificationRejected, ports.VerificationEvent{
		RequestID: rejected.ID,
		UserID:    rejected.UserID,
		State:     string(rejected.State),
		Comment:   rejected.Comment,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, storageErr("reject: commit", err)
	}
	return rejected, nil
}

// claimPending is the conditional update that serializes concurrent
// decisions: only the caller whose UPDATE matches the PENDIENTE row wins.
// A zero row count is disambiguated with a follow-up read.
func (r *VerificationRepository) claimPending(ctx context.Context, tx *sql.Tx, id int64, next domain.RequestState, comment string, decidedAt time.Time) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE verification_requests
		SET state = $1,
		    comment = CASE WHEN $2 <> '' THEN $2 ELSE comment END,
		    decided_at = $3,
		    updated_at = $3
		WHERE id = $4 AND state = $5`,
		next, comment, decidedAt, id, domain.StatePending,
	)
	if err != nil {
		return storageErr("decide request", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("decide request", err)
	}
	if n == 1 {
		return nil
	}

	var current domain.RequestState
	err = tx.QueryRowContext(ctx,
		`SELECT state FROM verification_requests WHERE id = $1`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrRequestNotFound
	}
	if err != nil {
		return storageErr("decide request: read state", err)
	}
	return domain.ErrInvalidStateTransition
}

// Delete purges the record and clears the owning user's link so the user can
// submit again. It deliberately leaves an already-created tutor profile and
// the TUTOR role in place.
func (r *VerificationRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("delete request: begin", err)
	}
	defer tx.Rollback()

	var userID int64
	var state domain.RequestState
	err = tx.QueryRowContext(ctx, `
		DELETE FROM verification_requests
		WHERE id = $1
		RETURNING user_id, state`,
		id,
	).Scan(&userID, &state)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrRequestNotFound
	}
	if err != nil {
		return storageErr("delete request", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE users
		SET verification_request_id = NULL, updated_at = NOW()
		WHERE verification_request_id = $1`,
		id,
	); err != nil {
		return storageErr("delete request: unlink user", err)
	}

	if err := insertOutboxEvent(ctx, tx, ports.EventVerificationDeleted, ports.VerificationEvent{
		RequestID: id,
		UserID:    userID,
		State:     string(state),
	}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return storageErr("delete request: commit", err)
	}
	return nil
}

// insertOutboxEvent enqueues an event in the same transaction as the write it
// describes. A trigger on outbox_events NOTIFYs the relay after commit.
func insertOutboxEvent(ctx context.Context, tx *sql.Tx, eventType string, evt ports.VerificationEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return storageErr("outbox: marshal event", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO outbox_events (id, event_type, payload, created_at)
		VALUES ($1, $2, $3, NOW())`,
		uuid.NewString(), eventType, payload,
	); err != nil {
		return storageErr("outbox: enqueue event", err)
	}
	return nil
}
