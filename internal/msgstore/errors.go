package msgstore

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes store failures.
type ErrorCode string

const (
	// CodeInvalidCount indicates a size outside its [min, max] bound.
	CodeInvalidCount ErrorCode = "INVALID_COUNT"

	// CodeLengthMismatch indicates paired arrays of different length.
	CodeLengthMismatch ErrorCode = "LENGTH_MISMATCH"

	// CodeIndexOutOfBounds indicates a referenced index >= current length.
	CodeIndexOutOfBounds ErrorCode = "INDEX_OUT_OF_BOUNDS"

	// CodeInvalidRange indicates a start/count pair beyond the stored length.
	CodeInvalidRange ErrorCode = "INVALID_RANGE"

	// CodePageOutOfBounds indicates a page whose first slot is >= length.
	CodePageOutOfBounds ErrorCode = "PAGE_OUT_OF_BOUNDS"

	// CodeInvalidOperationType indicates an unknown cost-estimation category.
	CodeInvalidOperationType ErrorCode = "INVALID_OPERATION_TYPE"

	// CodeTooMany indicates a count above the operation's own cap.
	CodeTooMany ErrorCode = "TOO_MANY"
)

// Error is returned by every failing store operation.
// A failed operation never leaves a partial mutation behind.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Details contains additional context (offending index, bounds).
	Details map[string]string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// CodeOf returns the ErrorCode carried by err, or "" if err is not a store error.
// Uses errors.As to handle wrapped errors.
func CodeOf(err error) ErrorCode {
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsCode reports whether err is a store error with the given code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

func newCountError(what string, got, lo, hi int) *Error {
	return &Error{
		Code:    CodeInvalidCount,
		Message: fmt.Sprintf("invalid %s count %d: must be between %d and %d", what, got, lo, hi),
		Details: map[string]string{
			"count": fmt.Sprintf("%d", got),
			"min":   fmt.Sprintf("%d", lo),
			"max":   fmt.Sprintf("%d", hi),
		},
	}
}

func newIndexError(index, length uint64) *Error {
	return &Error{
		Code:    CodeIndexOutOfBounds,
		Message: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Details: map[string]string{
			"index":  fmt.Sprintf("%d", index),
			"length": fmt.Sprintf("%d", length),
		},
	}
}

func newRangeError(start uint64, count int, length uint64) *Error {
	return &Error{
		Code:    CodeInvalidRange,
		Message: fmt.Sprintf("invalid range start=%d count=%d (length %d)", start, count, length),
		Details: map[string]string{
			"start":  fmt.Sprintf("%d", start),
			"count":  fmt.Sprintf("%d", count),
			"length": fmt.Sprintf("%d", length),
		},
	}
}

func newPageError(page uint64, pageSize int, length uint64) *Error {
	return &Error{
		Code:    CodePageOutOfBounds,
		Message: fmt.Sprintf("page %d of size %d out of bounds (length %d)", page, pageSize, length),
		Details: map[string]string{
			"page":      fmt.Sprintf("%d", page),
			"page_size": fmt.Sprintf("%d", pageSize),
			"length":    fmt.Sprintf("%d", length),
		},
	}
}
