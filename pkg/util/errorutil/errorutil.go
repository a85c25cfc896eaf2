package errorutil

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies a DomainError for callers. It is rendered verbatim in error responses.
type Kind string

const (
	KindAuthentication Kind = "AuthenticationError"
	KindAuthorization  Kind = "AuthorizationError"
	KindValidation     Kind = "ValidationError"
	KindNotFound       Kind = "NotFoundError"
	KindReference      Kind = "ReferenceError"
	KindPersistence    Kind = "PersistenceError"
	KindCancelled      Kind = "CancelledError"
)

// DomainError standardizes application errors.
type DomainError struct {
	Kind       Kind
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(kind Kind, code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Kind: kind, Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(KindValidation, "VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Kind:       KindNotFound,
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError(KindAuthentication, "UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(KindAuthorization, "FORBIDDEN", message, http.StatusForbidden, nil)
}

// NewReference reports a mutation pointing at a record that does not exist.
func NewReference(message string, details map[string]any) error {
	return NewDomainError(KindReference, "INVALID_REFERENCE", message, http.StatusUnprocessableEntity, details)
}

// NewPersistence hides store failures behind an opaque message; err is kept for logs only.
func NewPersistence(err error) error {
	return &DomainError{
		Kind:       KindPersistence,
		Code:       "PERSISTENCE_ERROR",
		Message:    "storage failure",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func NewCancelled(err error) error {
	return &DomainError{
		Kind:       KindCancelled,
		Code:       "REQUEST_CANCELLED",
		Message:    "request cancelled",
		HTTPStatus: http.StatusRequestTimeout,
		Err:        err,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Kind:       KindPersistence,
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return NewCancelled(err).(*DomainError)
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fromFiberError(fiberErr)
	}
	return NewInternalError(err).(*DomainError)
}

func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}

// KindOf returns the kind of err, or an empty Kind for nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	return ToDomainError(err).Kind
}

// IsKind reports whether err maps to the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func fromFiberError(e *fiber.Error) *DomainError {
	switch e.Code {
	case http.StatusUnauthorized:
		return NewUnauthorized(e.Message).(*DomainError)
	case http.StatusForbidden:
		return NewForbidden(e.Message).(*DomainError)
	case http.StatusNotFound:
		return NewDomainError(KindNotFound, "NOT_FOUND", e.Message, e.Code, nil)
	case http.StatusRequestTimeout:
		return NewCancelled(e).(*DomainError)
	}
	if e.Code >= 400 && e.Code < 500 {
		return NewDomainError(KindValidation, "BAD_REQUEST", e.Message, e.Code, nil)
	}
	return NewInternalError(e).(*DomainError)
}
