package engine

import (
	"errors"
	"fmt"
)

// ErrStop is the conventional cause an observer returns to stop a running sort,
// e.g. when the user closes the window.
var ErrStop = errors.New("stopped by observer")

// RuntimeError represents an error reported by the engine.
//
// Runtime errors include:
//   - Invalid size: initialize/regenerate with size <= 0
//   - Unknown algorithm: a name that does not resolve to an Algorithm
//   - Aborted: the observer or the context stopped a running sort
//
// RuntimeError includes structured fields for diagnostics and presentation.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Algorithm is the affected algorithm, if any.
	Algorithm Algorithm

	// Size is the requested or current sequence size, if relevant.
	Size int

	// Steps is the number of observation steps delivered before an abort.
	Steps int64

	// Err is the underlying cause (observer error or context error).
	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeInvalidSize indicates a non-positive or overflowing sequence size.
	ErrCodeInvalidSize RuntimeErrorCode = "INVALID_SIZE"

	// ErrCodeUnknownAlgorithm indicates an unsupported algorithm name.
	ErrCodeUnknownAlgorithm RuntimeErrorCode = "UNKNOWN_ALGORITHM"

	// ErrCodeAborted indicates a sort stopped before completion.
	ErrCodeAborted RuntimeErrorCode = "ABORTED"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Algorithm != "" && e.Err != nil {
		return fmt.Sprintf("%s: %s (algorithm=%s, steps=%d): %v", e.Code, e.Message, e.Algorithm, e.Steps, e.Err)
	}
	if e.Algorithm != "" {
		return fmt.Sprintf("%s: %s (algorithm=%s)", e.Code, e.Message, e.Algorithm)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

func hasCode(err error, code RuntimeErrorCode) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// IsInvalidSizeError returns true if the error is an invalid size error.
// Uses errors.As to handle wrapped errors.
func IsInvalidSizeError(err error) bool {
	return hasCode(err, ErrCodeInvalidSize)
}

// IsUnknownAlgorithmError returns true if the error is an unknown algorithm error.
func IsUnknownAlgorithmError(err error) bool {
	return hasCode(err, ErrCodeUnknownAlgorithm)
}

// IsAborted returns true if the error reports an aborted sort.
func IsAborted(err error) bool {
	return hasCode(err, ErrCodeAborted)
}

// NewInvalidSizeError creates a RuntimeError for a bad sequence size.
func NewInvalidSizeError(size int) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeInvalidSize,
		Message: fmt.Sprintf("size must be positive, got %d", size),
		Size:    size,
	}
}

// NewUnknownAlgorithmError creates a RuntimeError for an unsupported name.
func NewUnknownAlgorithmError(name string) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeUnknownAlgorithm,
		Message: fmt.Sprintf("unknown algorithm %q (want one of %v)", name, algorithmOrder),
	}
}

// NewAbortedError creates a RuntimeError for a sort stopped after steps steps.
func NewAbortedError(alg Algorithm, size int, steps int64, cause error) *RuntimeError {
	return &RuntimeError{
		Code:      ErrCodeAborted,
		Message:   "sort aborted before completion",
		Algorithm: alg,
		Size:      size,
		Steps:     steps,
		Err:       cause,
	}
}
