// Package errors provides the tagged error kinds shared by every pipeline stage.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"
	ErrCodeExtraction    ErrorCode = "EXTRACTION_ERROR"
	ErrCodeParse         ErrorCode = "PARSE_ERROR"
	ErrCodeTransport     ErrorCode = "TRANSPORT_ERROR"
	ErrCodeInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrCodeInternal      ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Stage     string                 `json:"stage,omitempty"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Cause     error                  `json:"-"`
}

func (e *StandardError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	if e.Stage != "" {
		b.WriteString(" [")
		b.WriteString(e.Stage)
		b.WriteString("]")
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Details != "" {
		b.WriteString(": ")
		b.WriteString(e.Details)
	}
	return b.String()
}

// Unwrap exposes the underlying cause, so provider errors stay reachable through errors.As.
func (e *StandardError) Unwrap() error {
	return e.Cause
}

// Is matches any StandardError carrying the same code, which lets the
// package sentinels be used with errors.Is.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is checks. They carry only a code.
var (
	ErrConfiguration = &StandardError{Code: ErrCodeConfiguration}
	ErrExtraction    = &StandardError{Code: ErrCodeExtraction}
	ErrParse         = &StandardError{Code: ErrCodeParse}
	ErrTransport     = &StandardError{Code: ErrCodeTransport}
	ErrInvalidInput  = &StandardError{Code: ErrCodeInvalidInput}
)

// ==========================
// 2. Error Constructors
// ==========================

// NewConfigurationError reports a missing or invalid setting. Fatal, never retried.
func NewConfigurationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfiguration,
		Message:   "Invalid configuration",
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// NewExtractionError reports a model response with no JSON object delimiters.
func NewExtractionError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeExtraction,
		Message:   "Could not extract JSON from response",
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// NewParseError reports delimited content that is not valid JSON.
func NewParseError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeParse,
		Message:   "Response JSON is invalid",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

// NewTransportError wraps a failure of the text-generation provider.
func NewTransportError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTransport,
		Message:   "Text generation call failed",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

// NewInvalidInputError reports a job or request payload that failed validation.
func NewInvalidInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidInput,
		Message:   "Invalid input",
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// WithStage returns a copy of err tagged with the failing stage.
// Errors that are not StandardErrors are normalized to INTERNAL_ERROR first.
func WithStage(err error, stage string) error {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if !stderrors.As(err, &stdErr) {
		return &StandardError{
			Code:      ErrCodeInternal,
			Stage:     stage,
			Message:   "Unexpected error",
			Details:   err.Error(),
			Timestamp: time.Now().UTC(),
			Cause:     err,
		}
	}
	tagged := *stdErr
	tagged.Stage = stage
	return &tagged
}

// CodeOf returns the error code carried by err, or INTERNAL_ERROR for foreign errors.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ErrCodeInternal
}

// StageOf returns the stage recorded on err, if any.
func StageOf(err error) string {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Stage
	}
	return ""
}

// GetErrorCategory groups codes for logging and metrics labels.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeConfiguration:
		return "CONFIG"
	case ErrCodeExtraction, ErrCodeParse:
		return "RESPONSE"
	case ErrCodeTransport:
		return "AI"
	case ErrCodeInvalidInput:
		return "VALIDATION"
	default:
		return "OTHER"
	}
}

// Errorf builds an INTERNAL_ERROR from a format string.
func Errorf(format string, args ...interface{}) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   fmt.Sprintf(format, args...),
		Timestamp: time.Now().UTC(),
	}
}
