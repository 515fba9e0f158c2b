package errors

import "errors"

// Common errors
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("resource not found")
	ErrInternalError = errors.New("internal server error")
)

// Memo errors
var (
	ErrMemoNotFound       = errors.New("memo not found")
	ErrTranscriptNotReady = errors.New("transcript not ready")
)

// Comment errors
var (
	ErrCommentNotFound = errors.New("comment not found")
)

// Capability errors, returned when an external service is not configured or unreachable
var (
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrQAUnavailable      = errors.New("question answering unavailable")
)
