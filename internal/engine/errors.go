package engine

import (
	"errors"
	"fmt"
)

// SortError represents a failure of a Sort call.
//
// Sort errors include:
//   - Invalid configuration: a Config field is out of range
//   - Allocation failure: the queue or pool could not be constructed
//   - Thread creation failure: a worker could not be started (pool rolled back)
//   - Ordering violation: the verification scan found a descending pair
//
// SortError includes structured fields for diagnostics.
type SortError struct {
	// Code identifies the error category.
	Code SortErrorCode

	// Message is a human-readable description.
	Message string

	// RunID identifies the sort run.
	RunID string

	// Index and Next are the offending pair for ordering violations
	// (a[Index] > a[Next]). Both are -1 otherwise.
	Index int
	Next  int

	// Err is the underlying cause, if any.
	Err error
}

// SortErrorCode categorizes sort errors.
type SortErrorCode string

const (
	// ErrCodeInvalidConfig indicates Config.Validate failed.
	ErrCodeInvalidConfig SortErrorCode = "INVALID_CONFIG"

	// ErrCodeAllocation indicates the queue or worker pool could not be built.
	ErrCodeAllocation SortErrorCode = "ALLOCATION_FAILED"

	// ErrCodeThreadCreation indicates a worker failed to start.
	ErrCodeThreadCreation SortErrorCode = "THREAD_CREATION_FAILED"

	// ErrCodeOrderingViolation indicates the sorted array is not non-decreasing.
	ErrCodeOrderingViolation SortErrorCode = "ORDERING_VIOLATION"
)

// Error implements the error interface.
func (e *SortError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Code == ErrCodeOrderingViolation {
		msg += fmt.Sprintf(" (index=%d, next=%d)", e.Index, e.Next)
	}
	if e.RunID != "" {
		msg += fmt.Sprintf(" (run=%s)", e.RunID)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *SortError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a SortError for an invalid configuration.
func NewConfigError(runID string, err error) *SortError {
	return &SortError{
		Code:    ErrCodeInvalidConfig,
		Message: "invalid sort configuration",
		RunID:   runID,
		Index:   -1,
		Next:    -1,
		Err:     err,
	}
}

// NewAllocationError creates a SortError for a setup resource failure.
func NewAllocationError(runID, what string, err error) *SortError {
	return &SortError{
		Code:    ErrCodeAllocation,
		Message: fmt.Sprintf("cannot allocate %s", what),
		RunID:   runID,
		Index:   -1,
		Next:    -1,
		Err:     err,
	}
}

// NewThreadCreationError creates a SortError for a worker that failed to
// start after started workers were already running.
func NewThreadCreationError(runID string, worker, started int, err error) *SortError {
	return &SortError{
		Code:    ErrCodeThreadCreation,
		Message: fmt.Sprintf("worker %d failed to start (%d started, rolled back)", worker, started),
		RunID:   runID,
		Index:   -1,
		Next:    -1,
		Err:     err,
	}
}

// NewOrderingError creates a SortError for a descending adjacent pair.
func NewOrderingError(runID string, index int, left, right any) *SortError {
	return &SortError{
		Code:    ErrCodeOrderingViolation,
		Message: fmt.Sprintf("array not sorted: %v > %v", left, right),
		RunID:   runID,
		Index:   index,
		Next:    index + 1,
	}
}

// IsConfigError returns true if the error is an invalid configuration error.
// Uses errors.As to handle wrapped errors.
func IsConfigError(err error) bool {
	return hasCode(err, ErrCodeInvalidConfig)
}

// IsAllocationError returns true if the error is an allocation error.
func IsAllocationError(err error) bool {
	return hasCode(err, ErrCodeAllocation)
}

// IsThreadCreationError returns true if the error is a thread creation error.
func IsThreadCreationError(err error) bool {
	return hasCode(err, ErrCodeThreadCreation)
}

// IsOrderingViolation returns true if the error is an ordering violation.
func IsOrderingViolation(err error) bool {
	return hasCode(err, ErrCodeOrderingViolation)
}

func hasCode(err error, code SortErrorCode) bool {
	var se *SortError
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}
