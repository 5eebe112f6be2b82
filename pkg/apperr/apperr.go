package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation    Kind = "VALIDATION_ERROR"
	KindUnauthorized  Kind = "UNAUTHORIZED"
	KindNotFound      Kind = "NOT_FOUND"
	KindConflict      Kind = "CONFLICT"
	KindStateConflict Kind = "STATE_CONFLICT"
	KindNotComputable Kind = "NOT_COMPUTABLE"
	KindInternal      Kind = "INTERNAL_ERROR"
)

var statusByKind = map[Kind]int{
	KindValidation:    http.StatusBadRequest,
	KindUnauthorized:  http.StatusUnauthorized,
	KindNotFound:      http.StatusNotFound,
	KindConflict:      http.StatusConflict,
	KindStateConflict: http.StatusConflict,
	KindNotComputable: http.StatusUnprocessableEntity,
	KindInternal:      http.StatusInternalServerError,
}

// HTTPStatus returns the status code the web layer uses for the kind.
func HTTPStatus(kind Kind) int {
	if code, ok := statusByKind[kind]; ok {
		return code
	}
	return http.StatusInternalServerError
}

// Error is a classified, request-scoped failure. Two errors with the same
// kind and message compare equal under errors.Is, so package level
// sentinels keep working after being wrapped with %w.
type Error struct {
	kind    Kind
	message string
	cause   error
}

func New(kind Kind, message string) *Error {
	return &Error{kind: kind, message: message}
}

func Wrap(kind Kind, err error, message string) *Error {
	return &Error{kind: kind, message: message, cause: err}
}

func Validation(format string, args ...any) *Error {
	return New(KindValidation, fmt.Sprintf(format, args...))
}

func (e *Error) Kind() Kind {
	if e == nil {
		return KindInternal
	}
	return e.kind
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.kind == t.kind && e.message == t.message
}

// As extracts the first *Error in the chain.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}
	return nil
}

// KindOf classifies any error; unclassified errors are internal.
func KindOf(err error) Kind {
	if typed := As(err); typed != nil {
		return typed.Kind()
	}
	return KindInternal
}
