package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error into the category the HTTP layer maps to a status
// code. Internal detail stays in Err and is only ever logged.
type Kind int

const (
	KindUnknown Kind = iota
	KindAuthenticationRequired
	KindValidationFailed
	KindUpstreamGateway
	KindPersistence
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindAuthenticationRequired:
		return "AUTHENTICATION_REQUIRED"
	case KindValidationFailed:
		return "VALIDATION_FAILED"
	case KindUpstreamGateway:
		return "UPSTREAM_GATEWAY_FAILED"
	case KindPersistence:
		return "PERSISTENCE_FAILED"
	case KindNotFound:
		return "NOT_FOUND"
	default:
		return "UNKNOWN"
	}
}

// AppError is the error type every service returns to the controllers.
type AppError struct {
	Kind    Kind
	Field   string // populated for validation failures
	Message string // safe to return to the caller
	Err     error  // internal cause, never surfaced
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

func AuthenticationRequired(message string) *AppError {
	return &AppError{Kind: KindAuthenticationRequired, Message: message}
}

func Validation(field, message string) *AppError {
	return &AppError{Kind: KindValidationFailed, Field: field, Message: message}
}

func UpstreamGateway(message string, err error) *AppError {
	return &AppError{Kind: KindUpstreamGateway, Message: message, Err: err}
}

func Persistence(message string, err error) *AppError {
	return &AppError{Kind: KindPersistence, Message: message, Err: err}
}

func NotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

func Unknown(message string, err error) *AppError {
	return &AppError{Kind: KindUnknown, Message: message, Err: err}
}

// From extracts an *AppError from err, wrapping foreign errors as Unknown.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Unknown("internal server error", err)
}

// StatusCode maps the error kind to its HTTP status.
func (e *AppError) StatusCode() int {
	switch e.Kind {
	case KindAuthenticationRequired:
		return 401
	case KindValidationFailed:
		return 400
	case KindNotFound:
		return 404
	default:
		return 500
	}
}
