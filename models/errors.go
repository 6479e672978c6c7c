package models

import (
	"errors"
	"fmt"
)

// Error codes used in run logs, webhook events and API responses.
const (
	ErrCodeNavTimeout   = "NAVIGATION_TIMEOUT"
	ErrCodeNavigation   = "NAVIGATION_FAILED"
	ErrCodeExtraction   = "EXTRACTION_FAILED"
	ErrCodeFilesystem   = "FILESYSTEM_FAILED"
	ErrCodeBrowser      = "BROWSER_UNAVAILABLE"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeCanceled     = "RUN_CANCELED"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeInternal     = "INTERNAL_ERROR"

	// Contact form error codes.
	ErrCodeMailerNotConfigured = "EMAIL_NOT_CONFIGURED"
	ErrCodeMailerSend          = "EMAIL_SEND_FAILED"
)

// SnapError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type SnapError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *SnapError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *SnapError) Unwrap() error {
	return e.Err
}

// NewSnapError creates a new SnapError.
func NewSnapError(code, message string, err error) *SnapError {
	return &SnapError{Code: code, Message: message, Err: err}
}

// CodeOf returns the code of the first SnapError in err's chain, or
// ErrCodeInternal when there is none.
func CodeOf(err error) string {
	var se *SnapError
	if errors.As(err, &se) {
		return se.Code
	}
	return ErrCodeInternal
}
