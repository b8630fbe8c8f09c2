package upstream

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var errTrailingData = errors.New("unexpected data after top-level JSON value")

// TransportError is returned when the call to the provider could not complete
// (DNS, connection, TLS, timeout).
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: request failed: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError is returned when the provider answered with a non-2xx status.
type StatusError struct {
	Endpoint   string
	StatusCode int
	// Body holds the beginning of the response body, for logs only.
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: provider returned status %s", e.Endpoint, e.Status())
}

// Status renders the code with its reason phrase, e.g. "503 Service Unavailable".
func (e *StatusError) Status() string {
	return strings.TrimSpace(fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode)))
}

// MalformedBodyError is returned when a 2xx response body is not valid JSON.
type MalformedBodyError struct {
	Endpoint string
	Err      error
}

func (e *MalformedBodyError) Error() string {
	return fmt.Sprintf("%s: failed to parse response: %v", e.Endpoint, e.Err)
}

func (e *MalformedBodyError) Unwrap() error {
	return e.Err
}
