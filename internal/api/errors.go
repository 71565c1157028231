package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// DefaultErrorMessage is used when the server reports a failure without a
// readable message in its body.
const DefaultErrorMessage = "Request failed. Please try again."

// Error is a server-reported failure: any response with a 4xx or 5xx status.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: server returned %d: %s", e.StatusCode, e.Message)
}

// DecodeError reports a response body that did not match its expected schema.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("api: decode response from %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// errorEnvelope matches the two message shapes the backend is known to emit:
// a nested errors.message for validation failures and a flat message otherwise.
type errorEnvelope struct {
	Message string `json:"message"`
	Errors  struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// newError extracts a human-readable message from an error response body with
// a three-tier fallback: errors.message, then message, then a fixed default.
func newError(resp *http.Response) *Error {
	apiErr := &Error{StatusCode: resp.StatusCode, Message: DefaultErrorMessage}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apiErr
	}

	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return apiErr
	}

	switch {
	case envelope.Errors.Message != "":
		apiErr.Message = envelope.Errors.Message
	case envelope.Message != "":
		apiErr.Message = envelope.Message
	}

	return apiErr
}

// Message returns the display message for err: the server-extracted message
// for API errors, or fallback for transport and decode failures.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != DefaultErrorMessage {
		return apiErr.Message
	}
	return fallback
}

// IsStatus reports whether err is a server error with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}
