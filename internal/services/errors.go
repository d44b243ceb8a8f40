package services

import (
	"errors"
)

type ErrorCode string

const (
	ErrorValidation         ErrorCode = "VALIDATION_ERROR"
	ErrorUsernameExists     ErrorCode = "USERNAME_EXISTS"
	ErrorInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrorUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrorNotFound           ErrorCode = "NOT_FOUND"
	ErrorFormClosed         ErrorCode = "FORM_CLOSED"
	ErrorInternal           ErrorCode = "INTERNAL_ERROR"
)

// FieldError describes one invalid input field. Path lists the segments
// leading to the field, e.g. ["questions", "1", "options"].
type FieldError struct {
	Message string   `json:"message"`
	Path    []string `json:"path"`
	Code    string   `json:"code"`
}

type ServiceError struct {
	Code    ErrorCode
	Message string
	Fields  []FieldError
}

func (e *ServiceError) Error() string { return e.Message }

func NewValidationError(msg string, fields ...FieldError) error {
	return &ServiceError{Code: ErrorValidation, Message: msg, Fields: fields}
}
func NewNotFoundError(msg string) error { return &ServiceError{Code: ErrorNotFound, Message: msg} }
func NewConflictError(msg string) error {
	return &ServiceError{Code: ErrorUsernameExists, Message: msg}
}
func NewInvalidCredentialsError(msg string) error {
	return &ServiceError{Code: ErrorInvalidCredentials, Message: msg}
}
func NewUnauthorizedError(msg string) error {
	return &ServiceError{Code: ErrorUnauthorized, Message: msg}
}
func NewFormClosedError(msg string) error { return &ServiceError{Code: ErrorFormClosed, Message: msg} }

func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// errFormNotFound is returned for forms that are missing and for forms owned
// by someone else alike, so callers cannot probe for existence.
var errFormNotFound = &ServiceError{Code: ErrorNotFound, Message: "Form not found or unauthorized"}
