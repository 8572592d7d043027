package disclosure

import (
	"errors"
	"fmt"
)

// ErrorCode identifies the category of a disclosure error.
type ErrorCode int

const (
	// ErrInvalidPath indicates a malformed path expression.
	ErrInvalidPath ErrorCode = iota + 1
	// ErrInvalidDocument indicates the input document could not be decoded.
	ErrInvalidDocument
	// ErrMalformedDocument indicates a decoded document does not have the
	// shape an operation relies on (e.g. a shard record that is not an object).
	ErrMalformedDocument
	// ErrInvalidInput indicates invalid parameters (non-positive caps, empty queries).
	ErrInvalidInput
)

// String returns the lower-case name of the code.
func (c ErrorCode) String() string {
	switch c {
	case ErrInvalidPath:
		return "invalid_path"
	case ErrInvalidDocument:
		return "invalid_document"
	case ErrMalformedDocument:
		return "malformed_document"
	case ErrInvalidInput:
		return "invalid_input"
	default:
		return fmt.Sprintf("error_code(%d)", int(c))
	}
}

// Error is the structured error type returned by all disclosure operations.
// Use Code to programmatically distinguish error categories.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode
	// Message is a human-readable description.
	Message string
	// Fragment is the offending substring of a path expression, or the
	// provenance of the offending value in a malformed document.
	Fragment string
	// Offset is the byte offset of Fragment within the path expression.
	// It is -1 when the error is not tied to a position.
	Offset int
	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("disclosure: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("disclosure: %s", e.Message)
}

// Unwrap returns the underlying cause, supporting errors.Is and errors.As chains.
func (e *Error) Unwrap() error {
	return e.Cause
}

func pathError(expr string, offset int, fragment, format string, args ...any) *Error {
	msg := fmt.Sprintf(format, args...)
	return &Error{
		Code:     ErrInvalidPath,
		Message:  fmt.Sprintf("%s at offset %d in %q", msg, offset, expr),
		Fragment: fragment,
		Offset:   offset,
	}
}

func malformed(at, format string, args ...any) *Error {
	return &Error{
		Code:     ErrMalformedDocument,
		Message:  fmt.Sprintf(format, args...),
		Fragment: at,
		Offset:   -1,
	}
}

func invalidInput(format string, args ...any) *Error {
	return &Error{Code: ErrInvalidInput, Message: fmt.Sprintf(format, args...), Offset: -1}
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsPathError returns true if err is a path expression syntax error.
func IsPathError(err error) bool {
	return hasCode(err, ErrInvalidPath)
}

// IsDocumentError returns true if err reports an undecodable document.
func IsDocumentError(err error) bool {
	return hasCode(err, ErrInvalidDocument)
}

// IsMalformed returns true if err reports a document with an unexpected shape.
func IsMalformed(err error) bool {
	return hasCode(err, ErrMalformedDocument)
}

// IsInvalidInput returns true if err reports invalid call parameters.
func IsInvalidInput(err error) bool {
	return hasCode(err, ErrInvalidInput)
}
