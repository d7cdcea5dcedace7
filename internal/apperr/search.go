package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCursor is returned when a cursor token cannot be decoded.
	ErrInvalidCursor = errors.New("invalid cursor")
	// ErrExpiredCursor is returned when a cursor token outlived its point in time.
	ErrExpiredCursor = errors.New("expired cursor")
)

// SchemaConflictError reports two entities declaring the same filter field
// with different display names.
type SchemaConflictError struct {
	Field  string
	First  string
	Second string
}

func (e *SchemaConflictError) Error() string {
	return fmt.Sprintf("unable to merge display names %q and %q for filter field %q", e.First, e.Second, e.Field)
}

func NewSchemaConflict(field, first, second string) *SchemaConflictError {
	return &SchemaConflictError{Field: field, First: first, Second: second}
}

// DataIntegrityError signals a document in the index that cannot be turned
// back into an entity reference.
type DataIntegrityError struct {
	Message string
	Err     error
}

func (e *DataIntegrityError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DataIntegrityError) Unwrap() error {
	return e.Err
}

func NewDataIntegrity(msg string, err error) *DataIntegrityError {
	return &DataIntegrityError{Message: msg, Err: err}
}
