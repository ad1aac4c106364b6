package entities

import "errors"

// Error categories shared by every layer. Wrap them with fmt.Errorf("...: %w", Err...)
// and test with errors.Is.
var (
	// ErrNotFound is returned when a lookup by id, name or title yields no row.
	ErrNotFound = errors.New("not found")

	// ErrConstraintViolation is returned when the store rejects a write: a duplicate
	// author name, or a book or tag referencing a parent that does not exist.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrInvalidInput covers malformed ids, out of range selections and bad field values.
	ErrInvalidInput = errors.New("invalid input")
)
