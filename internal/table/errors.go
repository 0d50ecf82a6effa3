package table

import (
	"errors"
	"fmt"
)

// Error represents a rejected table operation.
//
// The pipeline itself cannot fail; errors come only from construction
// (invalid options) and from the outbound operations that address something
// by label or position:
//   - Invalid option: page size below 1, empty id field, duplicate action
//   - Unknown action: RunAction label not configured
//   - No selection: RunAction with nothing selected
//   - Row out of range: ClickRow index outside the visible page
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// TableID identifies the table instance, when known.
	TableID string

	// Details contains additional context.
	Details map[string]string
}

// ErrorCode categorizes table errors.
type ErrorCode string

const (
	// ErrCodeInvalidOption indicates a construction option was rejected.
	ErrCodeInvalidOption ErrorCode = "INVALID_OPTION"

	// ErrCodeUnknownAction indicates no bulk action has the given label.
	ErrCodeUnknownAction ErrorCode = "UNKNOWN_ACTION"

	// ErrCodeNoSelection indicates a bulk action was run with nothing selected.
	ErrCodeNoSelection ErrorCode = "NO_SELECTION"

	// ErrCodeRowOutOfRange indicates a row index outside the visible page.
	ErrCodeRowOutOfRange ErrorCode = "ROW_OUT_OF_RANGE"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.TableID != "" {
		return fmt.Sprintf("%s: %s (table=%s)", e.Code, e.Message, e.TableID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func hasCode(err error, code ErrorCode) bool {
	var te *Error
	if errors.As(err, &te) {
		return te.Code == code
	}
	return false
}

// IsInvalidOption returns true if err is an invalid option error.
func IsInvalidOption(err error) bool {
	return hasCode(err, ErrCodeInvalidOption)
}

// IsUnknownAction returns true if err is an unknown action error.
func IsUnknownAction(err error) bool {
	return hasCode(err, ErrCodeUnknownAction)
}

// IsNoSelection returns true if err is a no selection error.
func IsNoSelection(err error) bool {
	return hasCode(err, ErrCodeNoSelection)
}

// IsRowOutOfRange returns true if err is a row out of range error.
func IsRowOutOfRange(err error) bool {
	return hasCode(err, ErrCodeRowOutOfRange)
}

func newInvalidOptionError(format string, args ...any) *Error {
	return &Error{
		Code:    ErrCodeInvalidOption,
		Message: fmt.Sprintf(format, args...),
	}
}

func newUnknownActionError(tableID, label string) *Error {
	return &Error{
		Code:    ErrCodeUnknownAction,
		Message: fmt.Sprintf("no action labelled %q", label),
		TableID: tableID,
	}
}

func newNoSelectionError(tableID, label string) *Error {
	return &Error{
		Code:    ErrCodeNoSelection,
		Message: fmt.Sprintf("action %q needs at least one selected row", label),
		TableID: tableID,
	}
}

func newRowOutOfRangeError(tableID string, index, visible int) *Error {
	return &Error{
		Code:    ErrCodeRowOutOfRange,
		Message: fmt.Sprintf("row index %d outside visible page", index),
		TableID: tableID,
		Details: map[string]string{
			"index":   fmt.Sprintf("%d", index),
			"visible": fmt.Sprintf("%d", visible),
		},
	}
}
