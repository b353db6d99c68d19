package errors

import "fmt"

// ErrorCode represents a Bronze error code.
type ErrorCode string

const (
	ErrInvalidRequest  ErrorCode = "INVALID_REQUEST"  // 400
	ErrNotFound        ErrorCode = "NOT_FOUND"        // 404
	ErrConflict        ErrorCode = "CONFLICT"         // 409
	ErrArchiveConflict ErrorCode = "ARCHIVE_CONFLICT" // 409
	ErrParse           ErrorCode = "PARSE_ERROR"      // 422
	ErrWriteFailure    ErrorCode = "WRITE_FAILURE"    // 500
	ErrInternal        ErrorCode = "INTERNAL"         // 500
)

// BronzeError represents a structured error with code, status, and details.
type BronzeError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *BronzeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *BronzeError {
	return &BronzeError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a missing document or record.
func NewNotFound(identifier string) *BronzeError {
	return &BronzeError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewConflict creates a 409 error for general conflicts.
func NewConflict(msg string) *BronzeError {
	return &BronzeError{
		Code:    ErrConflict,
		Status:  409,
		Message: msg,
	}
}

// NewArchiveConflict creates a 409 error for when an archive already exists
// on disk with content that differs from the partition about to be written.
// Rotation must never overwrite an existing archive.
func NewArchiveConflict(date, path string) *BronzeError {
	return &BronzeError{
		Code:    ErrArchiveConflict,
		Status:  409,
		Message: fmt.Sprintf("archive for %s already exists with different content: %s", date, path),
		Details: map[string]any{"date": date, "path": path},
	}
}

// NewParseError creates a 422 error for a malformed log document.
// Line is 1-based; 0 means the location is unknown.
func NewParseError(doc string, line int, msg string) *BronzeError {
	e := &BronzeError{
		Code:    ErrParse,
		Status:  422,
		Message: fmt.Sprintf("%s: %s", doc, msg),
		Details: map[string]any{"document": doc},
	}
	if line > 0 {
		e.Message = fmt.Sprintf("%s:%d: %s", doc, line, msg)
		e.Details["line"] = line
	}
	return e
}

// NewWriteFailure creates a 500 error for a storage write that did not complete.
func NewWriteFailure(path string, err error) *BronzeError {
	return &BronzeError{
		Code:    ErrWriteFailure,
		Status:  500,
		Message: fmt.Sprintf("write failed for %s: %v", path, err),
		Details: map[string]any{"path": path},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *BronzeError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &BronzeError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a BronzeError with the given code.
func Is(err error, code ErrorCode) bool {
	if bErr, ok := err.(*BronzeError); ok {
		return bErr.Code == code
	}
	return false
}
