package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

type ErrCode string

const (
	CodeValidation ErrCode = "validation_error"
	CodeNotFound   ErrCode = "not_found"
)

// AppError is an error the transport layer can show to the client as is.
// Meta maps an input name to what is wrong with it.
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
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Meta[k])
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, strings.Join(parts, "; "))
}

func ErrValidation(msg string) error { return &AppError{Code: CodeValidation, Message: msg} }

func ErrValidationMeta(msg string, meta map[string]string) error {
	return &AppError{Code: CodeValidation, Message: msg, Meta: meta}
}

// ErrInvalidParam reports a single malformed query parameter.
func ErrInvalidParam(name, reason string) error {
	return ErrValidationMeta("invalid query param", map[string]string{name: reason})
}

func ErrNotFound(msg string) error { return &AppError{Code: CodeNotFound, Message: msg} }

func IsValidation(err error) bool {
	var ae *AppError
	return errors.As(err, &ae) && ae.Code == CodeValidation
}
