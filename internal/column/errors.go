package column

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes column errors.
type ErrorCode string

const (
	// ErrCodeInvalidColumn indicates a malformed column descriptor.
	ErrCodeInvalidColumn ErrorCode = "INVALID_COLUMN"

	// ErrCodeDuplicateColumn indicates two columns share a key.
	ErrCodeDuplicateColumn ErrorCode = "DUPLICATE_COLUMN"

	// ErrCodeUnknownColumn indicates a key that names no column.
	ErrCodeUnknownColumn ErrorCode = "UNKNOWN_COLUMN"

	// ErrCodeUnknownRenderer indicates an unregistered render preset.
	ErrCodeUnknownRenderer ErrorCode = "UNKNOWN_RENDERER"
)

// Error is returned when a column list cannot be used.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsUnknownColumn reports whether err is an unknown column error.
func IsUnknownColumn(err error) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Code == ErrCodeUnknownColumn
}
