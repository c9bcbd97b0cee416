package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")
	// ErrConstraintViolation is returned when the store rejects a write
	// because it would break a uniqueness or foreign-key rule.
	ErrConstraintViolation = errors.New("constraint violation")
)

// Postgres SQLSTATE codes for integrity violations.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// StoreError wraps any failure of the store that is not a domain outcome,
// typically lost connectivity.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// classify maps a driver error onto ErrNotFound, ErrConstraintViolation or
// a *StoreError tagged with op.
func classify(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case codeUniqueViolation, codeForeignKeyViolation:
			return fmt.Errorf("%s: %w (%s)", op, ErrConstraintViolation, pqErr.Constraint)
		}
	}
	return &StoreError{Op: op, Err: err}
}
