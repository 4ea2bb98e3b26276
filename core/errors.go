package core

import (
	"net/http"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// APIError is a failed call to the BOS backend. Message carries the
// server's own message when one was returned.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func NewAPIError(code int, msg, reqID string) error {
	if msg == "" {
		msg = http.StatusText(code)
	}
	return &APIError{StatusCode: code, Message: msg, RequestID: reqID}
}

func (err APIError) Error() string {
	return err.Message
}

func IsUnauthorized(err error) bool {
	return apiStatus(err) == http.StatusUnauthorized
}

func IsForbidden(err error) bool {
	return apiStatus(err) == http.StatusForbidden
}

func IsNotFound(err error) bool {
	return apiStatus(err) == http.StatusNotFound
}

func apiStatus(err error) int {
	if aerr, ok := errors.Cause(err).(*APIError); ok {
		return aerr.StatusCode
	}
	return 0
}
