package services

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError kinds, mapped to HTTP status codes by the controller layer.
const (
	ErrKindValidation   = "VALIDATION"
	ErrKindNotFound     = "NOT_FOUND"
	ErrKindConflict     = "CONFLICT"
	ErrKindPrecondition = "PRECONDITION"
	ErrKindInternal     = "INTERNAL"
)

// AppError carries an error kind plus optional structured detail so the
// API layer can return actionable payloads instead of opaque 500s.
// Business-rule rejections (restriction guard, payment gate) are result
// structs, not AppErrors; AppError is reserved for invariant violations
// and request faults that must abort the current transaction.
type AppError struct {
	Kind    string
	Message string
	Details any
}

func (e *AppError) Error() string {
	return e.Message
}

// HTTPStatus maps the error kind to the response status code.
func (e *AppError) HTTPStatus() int {
	switch e.Kind {
	case ErrKindValidation, ErrKindPrecondition:
		return http.StatusBadRequest
	case ErrKindNotFound:
		return http.StatusNotFound
	case ErrKindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func NewValidationError(format string, args ...any) *AppError {
	return &AppError{Kind: ErrKindValidation, Message: fmt.Sprintf(format, args...)}
}

func NewNotFoundError(format string, args ...any) *AppError {
	return &AppError{Kind: ErrKindNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewConflictError(format string, args ...any) *AppError {
	return &AppError{Kind: ErrKindConflict, Message: fmt.Sprintf(format, args...)}
}

func NewPreconditionError(message string, details any) *AppError {
	return &AppError{Kind: ErrKindPrecondition, Message: message, Details: details}
}

func NewInternalError(err error) *AppError {
	return &AppError{Kind: ErrKindInternal, Message: err.Error()}
}

// AsAppError unwraps err into an *AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
