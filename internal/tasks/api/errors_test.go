package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMessage(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"validation", &Error{StatusCode: http.StatusBadRequest, Message: "date is required"}, "date is required"},
		{"server", &Error{StatusCode: http.StatusBadGateway, Message: "upstream exploded"}, GeneralErrorMessage},
		{"auth", fmt.Errorf("get tasks: %w", &Error{StatusCode: http.StatusUnauthorized}), "Not authorized, check your API token"},
		{"deadline", fmt.Errorf("wrapped: %w", context.DeadlineExceeded), "The request timed out"},
		{"cancelled", context.Canceled, "The request was cancelled"},
		{"unknown", errors.New("boom"), GeneralErrorMessage},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Message(c.err); got != c.want {
				t.Errorf("Message() = %q, want %q", got, c.want)
			}
		})
	}
}

func TestHandleError(t *testing.T) {
	var got []string
	handler := func(msg string) { got = append(got, msg) }

	HandleError(nil, handler)
	if len(got) != 0 {
		t.Fatalf("expected nil error to be ignored, got %v", got)
	}

	HandleError(&Error{StatusCode: http.StatusNotFound, Message: "task not found: 1"}, handler)
	if len(got) != 1 || got[0] != "task not found: 1" {
		t.Errorf("unexpected messages %v", got)
	}
}
