package errors

import (
	"fmt"
	"net/http"
)

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
	Code       string // categorical status exposed to callers
	Cause      error  // underlying error, kept out of the client message
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

func (e *ErrorWithStatusCode) Unwrap() error {
	return e.Cause
}

func NotFound(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusNotFound, Code: "not_found"}
}

func Conflict(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusConflict, Code: "conflict"}
}

// InvalidRange signals a date outside its allowed absolute window.
// Field names the offending date ("start", "initial", "final").
func InvalidRange(field, message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Code:       "invalid_range:" + field,
	}
}

// InvalidOrder signals dates that are individually in range but misordered.
func InvalidOrder(reason, message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Code:       "invalid_order:" + reason,
	}
}

func BadRequest(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusBadRequest, Code: "bad_request"}
}

func Unauthorized(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusForbidden, Code: "unauthorized"}
}

func Unauthenticated(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusUnauthorized, Code: "unauthorized"}
}

// Upstream wraps a store or blob-store failure. The cause is wrapped but
// never rendered into the client-visible message.
func Upstream(context string, cause error) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{
		Message:    fmt.Sprintf("%s failed", context),
		StatusCode: http.StatusBadGateway,
		Code:       "upstream_failure",
		Cause:      cause,
	}
}

// Check if err is instance of T for custom error types
func Is[T error](err error) bool {
	if _, ok := err.(T); ok {
		return true
	}
	return false
}

// CodeOf returns the categorical code for an error, or "internal" for
// anything that is not an ErrorWithStatusCode.
func CodeOf(err error) string {
	if e, ok := err.(*ErrorWithStatusCode); ok {
		return e.Code
	}
	return "internal"
}
