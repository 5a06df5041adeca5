package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

type ErrCode string

const (
	CodeValidation   ErrCode = "validation_error"
	CodeUnauthorized ErrCode = "unauthorized"
	CodeForbidden    ErrCode = "forbidden"
	CodeNotFound     ErrCode = "not_found"
	CodeConflict     ErrCode = "conflict"
	CodeRateLimited  ErrCode = "rate_limited"
	CodeInternal     ErrCode = "internal_error"
)

// Reason is the fixed, client-facing summary of a code. Message carries the
// specifics.
func (c ErrCode) Reason() string {
	switch c {
	case CodeValidation:
		return "Incorrectly made request."
	case CodeUnauthorized:
		return "Authentication is required."
	case CodeForbidden:
		return "Access to the requested object is denied."
	case CodeNotFound:
		return "The required object was not found."
	case CodeConflict:
		return "For the requested operation the conditions are not met."
	case CodeRateLimited:
		return "Too many requests."
	default:
		return "Unexpected error."
	}
}

type AppError struct {
	Code    ErrCode
	Message string
	Meta    map[string]string
}

func (e *AppError) Error() string {
	if len(e.Meta) == 0 {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	keys := make([]string, 0, len(e.Meta))
	for k := range e.Meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(k + ": " + e.Meta[k])
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, b.String())
}

func ErrValidation(msg string) error { return &AppError{Code: CodeValidation, Message: msg} }
func ErrValidationMeta(msg string, meta map[string]string) error {
	return &AppError{Code: CodeValidation, Message: msg, Meta: meta}
}
func ErrUnauthorized(msg string) error { return &AppError{Code: CodeUnauthorized, Message: msg} }
func ErrForbidden(msg string) error    { return &AppError{Code: CodeForbidden, Message: msg} }
func ErrNotFound(msg string) error     { return &AppError{Code: CodeNotFound, Message: msg} }
func ErrConflict(msg string) error     { return &AppError{Code: CodeConflict, Message: msg} }

// ErrMissing is the not-found error for one entity looked up by id,
// e.g. "event with id=7 was not found".
func ErrMissing(entity string, id int64) error {
	return ErrNotFound(fmt.Sprintf("%s with id=%d was not found", entity, id))
}

// IsCode reports whether err wraps an AppError carrying code.
func IsCode(err error, code ErrCode) bool {
	var ae *AppError
	return errors.As(err, &ae) && ae.Code == code
}
