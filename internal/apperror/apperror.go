package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the boundary layer. Every error that leaves a
// service is one of these kinds; storage and provider errors are wrapped, not
// leaked.
type Kind string

const (
	KindAuth       Kind = "auth"
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindProvider   Kind = "provider"
	KindInternal   Kind = "internal"
)

type AppError struct {
	Kind    Kind
	Message string
	Fields  map[string]string // field -> violation, for validation errors
	cause   error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.cause
}

func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *AppError {
	return &AppError{Kind: kind, Message: message, cause: cause}
}

func Unauthorized(message string) *AppError {
	return New(KindAuth, message)
}

func NotFound(resource string) *AppError {
	return New(KindNotFound, resource+" not found")
}

func Validation(message string, fields map[string]string) *AppError {
	return &AppError{Kind: KindValidation, Message: message, Fields: fields}
}

func Provider(message string, cause error) *AppError {
	return Wrap(KindProvider, message, cause)
}

func Internal(message string, cause error) *AppError {
	return Wrap(KindInternal, message, cause)
}

// KindOf returns the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
