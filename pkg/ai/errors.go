package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
)

// ErrorKind is the retry class of a provider failure
type ErrorKind int

const (
	ErrorKindFatal ErrorKind = iota
	ErrorKindTimeout
	ErrorKindConnectionReset
	ErrorKindRateLimited
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindTimeout:
		return "timeout"
	case ErrorKindConnectionReset:
		return "connection_reset"
	case ErrorKindRateLimited:
		return "rate_limited"
	default:
		return "fatal"
	}
}

// Retryable reports whether another attempt may succeed
func (k ErrorKind) Retryable() bool {
	return k != ErrorKindFatal
}

// ProviderError is returned by every provider client in this package
type ProviderError struct {
	Provider   string
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError wraps err and classifies it
func NewProviderError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: Classify(err), Err: err}
}

// NewStatusError builds a provider error from an HTTP status
func NewStatusError(provider string, statusCode int) *ProviderError {
	return &ProviderError{
		Provider:   provider,
		Kind:       KindForStatus(statusCode),
		StatusCode: statusCode,
		Err:        fmt.Errorf("%s returned status %d", provider, statusCode),
	}
}

// KindForStatus maps an HTTP status code to an ErrorKind
func KindForStatus(code int) ErrorKind {
	switch code {
	case http.StatusTooManyRequests:
		return ErrorKindRateLimited
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return ErrorKindTimeout
	case http.StatusBadGateway, http.StatusServiceUnavailable:
		return ErrorKindConnectionReset
	}
	return ErrorKindFatal
}

// Classify inspects err and returns its retry class. Already classified
// errors keep their kind. Unknown errors fall back to message matching.
func Classify(err error) ErrorKind {
	if err == nil {
		return ErrorKindFatal
	}

	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}

	// caller gave up, retrying would not help
	if errors.Is(err, context.Canceled) {
		return ErrorKindFatal
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, syscall.ETIMEDOUT) {
		return ErrorKindTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return ErrorKindTimeout
	}
	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrorKindConnectionReset
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "rate limit"),
		strings.Contains(msg, "too many requests"):
		return ErrorKindRateLimited
	case strings.Contains(msg, "timeout"),
		strings.Contains(msg, "timed out"),
		strings.Contains(msg, "etimedout"):
		return ErrorKindTimeout
	case strings.Contains(msg, "connection reset"),
		strings.Contains(msg, "econnreset"),
		strings.Contains(msg, "broken pipe"),
		strings.Contains(msg, "fetch failed"),
		strings.Contains(msg, "unexpected eof"):
		return ErrorKindConnectionReset
	}

	return ErrorKindFatal
}
