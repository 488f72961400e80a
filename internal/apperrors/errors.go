package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing or invalid operator credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInvalidInput is returned when the operator's balance text cannot be read as an amount.
var ErrInvalidInput error = &kindError{msg: "invalid balance input", parent: ErrValidation}

// ErrDuplicateEntryForDay is returned when a balance record already exists for the calendar day.
var ErrDuplicateEntryForDay error = &kindError{msg: "a balance has already been recorded for today", parent: ErrDuplicate}

// ErrConnectionFailure indicates the balance store could not be reached.
var ErrConnectionFailure = errors.New("balance store unreachable")

// kindError narrows a broader sentinel while keeping its own operator-facing text.
type kindError struct {
	msg    string
	parent error
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.parent }

// AppError carries an HTTP-ish status code alongside the message shown to callers.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func NewValidationError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, ErrValidation)
}

func NewBadRequestError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, nil)
}

func NewUnauthorizedError(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, message, ErrUnauthorized)
}

func NewInternalServerError(message string) *AppError {
	return NewAppError(http.StatusInternalServerError, message, nil)
}

func NewGatewayTimeoutError(message string) *AppError {
	return NewAppError(http.StatusGatewayTimeout, message, nil)
}

// ErrorKind names the failure classes an operator can see.
type ErrorKind string

const (
	KindNone                 ErrorKind = ""
	KindInvalidInput         ErrorKind = "InvalidInput"
	KindDuplicateEntryForDay ErrorKind = "DuplicateEntryForDay"
	KindConnectionFailure    ErrorKind = "ConnectionFailure"
	KindUnknown              ErrorKind = "Unknown"
)

// Kind classifies err. ErrInvalidInput and ErrDuplicateEntryForDay are checked before
// their broader parents so the most specific kind wins.
func Kind(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrConnectionFailure):
		return KindConnectionFailure
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrDuplicateEntryForDay):
		return KindDuplicateEntryForDay
	case errors.Is(err, ErrValidation):
		return KindInvalidInput
	case errors.Is(err, ErrDuplicate):
		return KindDuplicateEntryForDay
	default:
		return KindUnknown
	}
}

// StatusCode maps err onto the HTTP status used by the API handlers.
func StatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}
	switch Kind(err) {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindDuplicateEntryForDay:
		return http.StatusConflict
	case KindConnectionFailure:
		return http.StatusServiceUnavailable
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}
