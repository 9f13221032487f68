package errors

import "fmt"

// ErrorCode represents a traction error code.
type ErrorCode string

const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrNotFound       ErrorCode = "NOT_FOUND"       // 404
	ErrNoData         ErrorCode = "NO_DATA"         // 404 (empty input set)
	ErrAllFiltered    ErrorCode = "ALL_FILTERED"    // 422 (threshold removed every group)
	ErrNoMetrics      ErrorCode = "NO_METRICS"      // 422 (post with all-zero counts)
	ErrInternal       ErrorCode = "INTERNAL"        // 500
)

// TractionError represents a structured error with code, status, and details.
type TractionError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *TractionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *TractionError {
	return &TractionError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when a post cannot be found.
func NewNotFound(identifier string) *TractionError {
	return &TractionError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("post not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewNoData creates a 404 error for an empty filtered snapshot. This is the
// "no input data at all" condition; compare NewAllFiltered.
func NewNoData(window string) *TractionError {
	return &TractionError{
		Code:    ErrNoData,
		Status:  404,
		Message: "no posts match the current window and filters",
		Details: map[string]any{"window": window},
	}
}

// NewAllFiltered creates a 422 error for when the minimum-reach threshold
// excluded every aggregated group. Callers must be able to distinguish this
// from NewNoData: data existed, the threshold removed all of it.
func NewAllFiltered(minReach int64, groups int) *TractionError {
	return &TractionError{
		Code:    ErrAllFiltered,
		Status:  422,
		Message: fmt.Sprintf("all %d groups fall below the minimum reach threshold (%d)", groups, minReach),
		Details: map[string]any{"min_reach": minReach, "groups": groups},
	}
}

// NewNoMetrics creates a 422 error for a post entry with all-zero counts.
func NewNoMetrics() *TractionError {
	return &TractionError{
		Code:    ErrNoMetrics,
		Status:  422,
		Message: "enter at least one metric (reach, likes, follows, or email captures)",
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *TractionError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &TractionError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a TractionError with the given code.
func Is(err error, code ErrorCode) bool {
	if tErr, ok := err.(*TractionError); ok {
		return tErr.Code == code
	}
	return false
}
