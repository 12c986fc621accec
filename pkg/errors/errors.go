package errors

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeInvalidArgument = "InvalidArgument"
	CodeUpstreamFailure = "UpstreamFailure"
	CodeInternalError   = "InternalError"
)

// StandardError represents a standardized error
type StandardError struct {
	Code    string `json:"error"`   // Error code/type (e.g., "InvalidArgument", "UpstreamFailure")
	Message string `json:"message"` // Human-readable error message
	Details string `json:"details"` // Additional details (parameter name, upstream status, etc.)
	cause   error
}

// Error implements the error interface
func (e *StandardError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause to errors.Is / errors.As
func (e *StandardError) Unwrap() error {
	return e.cause
}

// HTTPStatus returns the appropriate HTTP status code for the error
func (e *StandardError) HTTPStatus() int {
	switch e.Code {
	case CodeInvalidArgument:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// NewStandardError creates a new StandardError
func NewStandardError(errorCode, message, details string) *StandardError {
	return &StandardError{
		Code:    errorCode,
		Message: message,
		Details: details,
	}
}

// NewInvalidArgument reports a missing or blank required parameter
func NewInvalidArgument(message, param string) *StandardError {
	return NewStandardError(CodeInvalidArgument, message, fmt.Sprintf("Parameter: %s", param))
}

// NewUpstreamFailure reports a transport error, a non-2xx response or a failed envelope
func NewUpstreamFailure(message string, err error) *StandardError {
	e := NewStandardError(CodeUpstreamFailure, message, "")
	if err != nil {
		e.Details = err.Error()
		e.cause = err
	}
	return e
}

func NewInternalError(message string, err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &StandardError{Code: CodeInternalError, Message: message, Details: details, cause: err}
}

// IsInvalidArgument reports whether err carries the InvalidArgument code
func IsInvalidArgument(err error) bool {
	return hasCode(err, CodeInvalidArgument)
}

// IsUpstreamFailure reports whether err carries the UpstreamFailure code
func IsUpstreamFailure(err error) bool {
	return hasCode(err, CodeUpstreamFailure)
}

func hasCode(err error, code string) bool {
	var stdErr *StandardError
	return errors.As(err, &stdErr) && stdErr.Code == code
}
