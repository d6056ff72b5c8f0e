package catalog

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ConnectMessage is shown when a request never reached the server or never
// came back.
const ConnectMessage = "Unable to connect to server. Please check that the API is running."

// Error is the single failure type returned by Client. Message is always
// human readable and safe to show; Err keeps the underlying cause.
type Error struct {
	Method  string
	Path    string
	Status  int // zero when the server was never reached
	Message string
	Err     error

	unreachable bool
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Transport reports whether the request failed before a response arrived.
func (e *Error) Transport() bool {
	return e.unreachable
}

// IsTransport reports whether err is a connectivity failure.
func IsTransport(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Transport()
}

// Message returns the text a page shows for err, or fallback when err
// carries nothing useful.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return fallback
}

func statusMessage(status int, body []byte) string {
	if msg := envelopeError(body); msg != "" {
		return msg
	}
	return fmt.Sprintf("HTTP %d: %s", status, http.StatusText(status))
}

// Unreachable builds the error returned when the server could not be
// reached. Fakes use it to simulate an offline API.
func Unreachable(method, path string, cause error) *Error {
	return &Error{
		Method:      method,
		Path:        path,
		Message:     ConnectMessage,
		Err:         cause,
		unreachable: true,
	}
}
