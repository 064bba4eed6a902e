package models

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error so HTTP handlers can pick a status
// code without string matching.
type Kind string

const (
	KindValidation        Kind = "validation"
	KindAuthentication    Kind = "authentication"
	KindAuthorization     Kind = "authorization"
	KindNotFound          Kind = "not_found"
	KindConflict          Kind = "conflict"
	KindEvaluationService Kind = "evaluation_service"
	KindPersistence       Kind = "persistence"
)

// AppError carries a kind alongside the message shown to the caller
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newError(kind Kind, format string, args ...interface{}) *AppError {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func ValidationError(format string, args ...interface{}) *AppError {
	return newError(KindValidation, format, args...)
}

func AuthenticationError(format string, args ...interface{}) *AppError {
	return newError(KindAuthentication, format, args...)
}

func AuthorizationError(format string, args ...interface{}) *AppError {
	return newError(KindAuthorization, format, args...)
}

func NotFoundError(format string, args ...interface{}) *AppError {
	return newError(KindNotFound, format, args...)
}

func ConflictError(format string, args ...interface{}) *AppError {
	return newError(KindConflict, format, args...)
}

// EvaluationServiceError wraps a judging collaborator failure, keeping the
// downstream message intact for the caller.
func EvaluationServiceError(err error) *AppError {
	return &AppError{Kind: KindEvaluationService, Message: err.Error(), Err: err}
}

// PersistenceError wraps a storage failure
func PersistenceError(err error) *AppError {
	return &AppError{Kind: KindPersistence, Message: err.Error(), Err: err}
}

// IsKind reports whether err is an AppError of the given kind
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// HTTPStatus maps an error to the status code the boundary should return
func HTTPStatus(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
