package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrDuplicate is returned when a unique constraint rejects the record.
	ErrDuplicate = errors.New("persistence: duplicate")
	// ErrDepleted is returned when a conditional stock decrement affects no rows.
	ErrDepleted = errors.New("persistence: depleted")
	// ErrConstraintViolation is returned when a check constraint rejects the record.
	ErrConstraintViolation = errors.New("persistence: constraint violation")
	// ErrForeignKeyViolation is returned when a referenced record is missing.
	ErrForeignKeyViolation = errors.New("persistence: foreign key violation")
)
