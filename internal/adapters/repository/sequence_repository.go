package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/enseniamelo/tutor-verification-service/internal/core/domain"
	"github.com/enseniamelo/tutor-verification-service/internal/core/ports"
)

// SequenceRepository implements ports.SequenceAllocator on a shared
// sequence_counters table. The increment is a single upsert statement, so N
// concurrent callers for the same name receive N distinct contiguous values
// no matter how the calls interleave or how many service processes run.
type SequenceRepository struct {
	db *sql.DB
}

var _ ports.SequenceAllocator = (*SequenceRepository)(nil)

func NewSequenceRepository(db *sql.DB) *SequenceRepository {
	return &SequenceRepository{db: db}
}

func (r *SequenceRepository) Next(ctx context.Context, name string) (int64, error) {
	if name == "" {
		return 0, fmt.Errorf("%w: empty counter name", domain.ErrInvalidInput)
	}

	var value int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO sequence_counters (name, value)
		VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET value = sequence_counters.value + 1
		RETURNING value`,
		name,
	).Scan(&value)
	if err != nil {
		return 0, storageErr("allocate sequence "+name, err)
	}
	return value, nil
}
