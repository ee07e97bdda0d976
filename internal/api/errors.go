package api

import (
	"fmt"
	"net/http"
	"strings"
)

type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

type ApiError struct {
	StatusCode int          `json:"-"`
	Errors     []FieldError `json:"errors"`
	Err        error        `json:"-"`
}

func (e *ApiError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, f := range e.Errors {
		msgs = append(msgs, f.Message)
	}

	msg := strings.Join(msgs, "; ")
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", msg, e.Err.Error())
	}

	return msg
}

func (e *ApiError) Unwrap() error {
	return e.Err
}

func lower(s string) string {
	return strings.ToLower(s)
}

func newApiError(statusCode int, message string) *ApiError {
	return &ApiError{
		StatusCode: statusCode,
		Errors:     []FieldError{{Message: message}},
	}
}

// NewValidationError reports schema violations with their field paths.
func NewValidationError(fields []FieldError) *ApiError {
	return &ApiError{
		StatusCode: http.StatusBadRequest,
		Errors:     fields,
	}
}

func NewBadRequestError(message string) *ApiError {
	return newApiError(http.StatusBadRequest, message)
}

func NewNotFoundError(message string) *ApiError {
	return newApiError(http.StatusNotFound, message)
}

func NewConflictError(message string) *ApiError {
	return newApiError(http.StatusConflict, message)
}

// NewNotYetOpenError signals a room accessed by code before its start
// time. 202 is deliberate: callers must be able to tell "opens later"
// apart from an error.
func NewNotYetOpenError() *ApiError {
	return newApiError(http.StatusAccepted, "Voting has not started")
}

func NewUnauthorizedError() *ApiError {
	return newApiError(http.StatusUnauthorized, lower(http.StatusText(http.StatusUnauthorized)))
}

func NewMethodNotAllowedError() *ApiError {
	return newApiError(http.StatusMethodNotAllowed, lower(http.StatusText(http.StatusMethodNotAllowed)))
}

func NewInternalServerError(err error) *ApiError {
	e := newApiError(http.StatusInternalServerError, lower(http.StatusText(http.StatusInternalServerError)))
	e.Err = err
	return e
}
