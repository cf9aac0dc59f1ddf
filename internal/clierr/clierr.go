// Package clierr defines the structured errors returned by CLI commands.
package clierr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"daylist/internal/tasks/api"
	"daylist/internal/tasks/data"
	"daylist/internal/tasks/service"
)

// Error codes.
const (
	TaskNotFound    = "TASK_NOT_FOUND"
	InvalidInput    = "INVALID_INPUT"
	InvalidDate     = "INVALID_DATE"
	InvalidPriority = "INVALID_PRIORITY"
	NoChanges       = "NO_CHANGES"
	NothingToUndo   = "NOTHING_TO_UNDO"
	Unauthorized    = "UNAUTHORIZED"
	APIUnreachable  = "API_UNREACHABLE"
	APIError        = "API_ERROR"
	ConfigError     = "CONFIG_ERROR"
	InternalError   = "INTERNAL_ERROR"
)

// Error is a CLI error with a machine-readable code.
type Error struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *Error) Error() string { return e.Message }

func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithDetails attaches details to the error and returns it.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// ExitCode is 2 for internal errors, 3 when the backend could not be reached
// and 1 otherwise.
func (e *Error) ExitCode() int {
	switch e.Code {
	case InternalError:
		return 2
	case APIUnreachable:
		return 3
	}
	return 1
}

// From maps an error returned by the controller or the API client to an
// *Error. Errors that already are *Error pass through unchanged.
func From(err error) *Error {
	if err == nil {
		return nil
	}

	var cliErr *Error
	if errors.As(err, &cliErr) {
		return cliErr
	}

	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		return New(TaskNotFound, err.Error())
	case errors.Is(err, service.ErrNothingToUndo):
		return New(NothingToUndo, err.Error())
	case errors.Is(err, service.ErrInvalidDrop), errors.Is(err, data.ErrIndexOutOfRange):
		return New(InvalidInput, err.Error())
	}

	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		e := New(APIError, api.Message(err)).WithDetails(map[string]any{
			"status":     apiErr.StatusCode,
			"request_id": apiErr.RequestID,
		})
		switch apiErr.StatusCode {
		case http.StatusNotFound:
			e.Code = TaskNotFound
		case http.StatusBadRequest:
			e.Code = InvalidInput
		case http.StatusUnauthorized, http.StatusForbidden:
			e.Code = Unauthorized
		}
		return e
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return New(APIUnreachable, api.Message(err))
	}
	return New(InternalError, err.Error())
}
