package store

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write violates a uniqueness constraint.
// The driver error stays reachable through errors.As.
var ErrConflict = errors.New("conflict")

const pqUniqueViolation = pq.ErrorCode("23505")

// translateWriteError tags unique violations with ErrConflict and returns
// every other error unchanged.
func translateWriteError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		return fmt.Errorf("%w: %s: %w", ErrConflict, pqErr.Constraint, err)
	}
	return err
}
