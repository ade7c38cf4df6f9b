// Package errors defines the typed error used across services. The Code
// picks the HTTP status and the public message; the cause stays server side.
package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation     Code = "VALIDATION_ERROR"
	CodeEmptySelection Code = "EMPTY_SELECTION"
	CodeUnauthorized   Code = "UNAUTHORIZED"
	CodeForbidden      Code = "FORBIDDEN"
	CodeNotFound       Code = "NOT_FOUND"
	CodeConflict       Code = "CONFLICT"
	CodeStateConflict  Code = "STATE_CONFLICT"
	CodeIdempotency    Code = "IDEMPOTENCY_KEY_REUSED"
	CodeRateLimit      Code = "RATE_LIMIT_EXCEEDED"
	CodeInternal       Code = "INTERNAL_ERROR"
	CodeDependency     Code = "DEPENDENCY_ERROR"
)

type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

const (
	withDetails = 1 << iota
	retryable
)

func meta(status int, public string, flags int) Metadata {
	return Metadata{
		HTTPStatus:     status,
		PublicMessage:  public,
		DetailsAllowed: flags&withDetails != 0,
		Retryable:      flags&retryable != 0,
	}
}

var metadataByCode = map[Code]Metadata{
	CodeValidation:     meta(http.StatusBadRequest, "validation failed", withDetails),
	CodeEmptySelection: meta(http.StatusBadRequest, "no cart items match the selection", withDetails),
	CodeUnauthorized:   meta(http.StatusUnauthorized, "authentication required", 0),
	CodeForbidden:      meta(http.StatusForbidden, "access denied", 0),
	CodeNotFound:       meta(http.StatusNotFound, "resource not found", withDetails),
	CodeConflict:       meta(http.StatusConflict, "conflict detected", 0),
	CodeStateConflict:  meta(http.StatusUnprocessableEntity, "state transition disallowed", withDetails),
	CodeIdempotency:    meta(http.StatusConflict, "idempotency key reused", withDetails),
	CodeRateLimit:      meta(http.StatusTooManyRequests, "rate limit exceeded", 0),
	CodeInternal:       meta(http.StatusInternalServerError, "internal server error", retryable),
	CodeDependency:     meta(http.StatusServiceUnavailable, "dependency unavailable", withDetails|retryable),
}

// MetadataFor falls back to CodeInternal for codes it does not know.
func MetadataFor(code Code) Metadata {
	if m, ok := metadataByCode[code]; ok {
		return m
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap keeps err reachable through errors.Is and errors.As.
func Wrap(code Code, err error, message string) *Error {
	return &Error{code: code, message: message, cause: err}
}

// Field builds a validation error carrying a single field-level detail.
func Field(field, reason string) *Error {
	return New(CodeValidation, "validation failed").WithDetails(map[string]string{field: reason})
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e != nil {
		e.details = details
	}
	return e
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return ""
	case e.cause != nil:
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	default:
		return fmt.Sprintf("%s: %s", e.code, e.message)
	}
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is matches another *Error by code, so New(CodeNotFound, "") works as a
// sentinel with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e != nil && t != nil && e.code == t.code
}

// As returns the outermost *Error in err's chain, or nil.
func As(err error) *Error {
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

func IsCode(err error, code Code) bool {
	return As(err).codeIs(code)
}

func (e *Error) codeIs(code Code) bool {
	return e != nil && e.code == code
}
