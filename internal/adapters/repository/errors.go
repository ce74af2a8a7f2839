package repository

import (
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/enseniamelo/tutor-verification-service/internal/core/domain"
)

// PostgreSQL error codes we translate into domain errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// storageErr marks an infrastructure failure so callers can match it with
// errors.Is(err, domain.ErrStorageUnavailable) while keeping the cause in the
// message.
func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, domain.ErrStorageUnavailable, err)
}

func pgErrCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}
