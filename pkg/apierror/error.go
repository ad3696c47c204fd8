package apierror

import (
	"encoding/json"
	"net/http"
)

// Error is a status-coded API error. On the wire it renders as
// {"detail": "<message>"}, the body shape clients of this API expect.
type Error struct {
	StatusCode int    `json:"-"`
	Detail     string `json:"detail"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Detail
}

// ToJSON converts the error to its response body.
func (e *Error) ToJSON() []byte {
	data, _ := json.Marshal(e)
	return data
}

// BadRequest creates a 400 Bad Request error.
func BadRequest(detail string) *Error {
	return &Error{StatusCode: http.StatusBadRequest, Detail: detail}
}

// Unauthorized creates a 401 Unauthorized error.
func Unauthorized(detail string) *Error {
	if detail == "" {
		detail = "Authentication required"
	}
	return &Error{StatusCode: http.StatusUnauthorized, Detail: detail}
}

// NotFound creates a 404 Not Found error.
func NotFound(detail string) *Error {
	if detail == "" {
		detail = "Resource not found"
	}
	return &Error{StatusCode: http.StatusNotFound, Detail: detail}
}

// BadGateway creates a 502 Bad Gateway error.
func BadGateway(detail string) *Error {
	return &Error{StatusCode: http.StatusBadGateway, Detail: detail}
}

// ServiceUnavailable creates a 503 Service Unavailable error.
func ServiceUnavailable(detail string) *Error {
	if detail == "" {
		detail = "Service temporarily unavailable"
	}
	return &Error{StatusCode: http.StatusServiceUnavailable, Detail: detail}
}

// InternalError creates a 500 Internal Server Error.
func InternalError(detail string) *Error {
	if detail == "" {
		detail = "An unexpected error occurred"
	}
	return &Error{StatusCode: http.StatusInternalServerError, Detail: detail}
}
