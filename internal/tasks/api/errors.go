package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// GeneralErrorMessage is shown when nothing more specific is known.
const GeneralErrorMessage = "Something went wrong, please try again"

// Error is a non-2xx response from the backend.
type Error struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Message turns any error from this package into text fit for a toast.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden:
			return "Not authorized, check your API token"
		case apiErr.StatusCode >= 500:
			return GeneralErrorMessage
		case apiErr.Message != "":
			return apiErr.Message
		}
		return GeneralErrorMessage
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "The request timed out"
	}
	if errors.Is(err, context.Canceled) {
		return "The request was cancelled"
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return "The request timed out"
		}
		return "Could not reach the server"
	}
	return GeneralErrorMessage
}

// HandleError is the shared failure path of every API call: it reports err
// through generalError. Nil errors are ignored.
func HandleError(err error, generalError func(string)) {
	if err == nil || generalError == nil {
		return
	}
	generalError(Message(err))
}
