package customerapi

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned when the client has no base URL.
var ErrNotConfigured = errors.New("customer API client not configured: base URL required")

// ResponseError is a non-2xx response from the customer API.
type ResponseError struct {
	Status  int
	Message string
	Code    string
	Method  string
	Path    string
}

func (e *ResponseError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s returned %d: %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s returned %d", e.Method, e.Path, e.Status)
}

// StatusCode returns the HTTP status of the response.
func (e *ResponseError) StatusCode() int { return e.Status }

// ResponseMessage returns the server's human-readable message.
func (e *ResponseError) ResponseMessage() string { return e.Message }

// ResponseCode returns the server's structured error code, if it sent one.
func (e *ResponseError) ResponseCode() string { return e.Code }
