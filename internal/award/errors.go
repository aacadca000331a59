package award

import (
	"fmt"
	"net/http"
)

// AppError is an error that knows how it should be reported over HTTP.
type AppError struct {
	Status  int
	Code    ErrorCode
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewValidationError(msg string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Code: ErrorCodeValidation, Message: msg}
}

// UpstreamError is a failed call to the availability or trip-detail provider.
// Status is 0 when the request never got a response.
type UpstreamError struct {
	Op     string
	Status int
	Detail string
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: upstream unreachable: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: upstream returned %d: %s", e.Op, e.Status, e.Detail)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
