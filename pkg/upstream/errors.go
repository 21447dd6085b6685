package upstream

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrEmptyResponse is returned when the upstream answered successfully but
	// without a body where an envelope was expected.
	ErrEmptyResponse = errors.New("upstream returned an empty response")

	// ErrMalformedResponse is returned when a response body is not a valid
	// envelope.
	ErrMalformedResponse = errors.New("upstream returned a malformed response")
)

// StatusError is returned when the upstream answers with a non-2xx status.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: upstream returned status %d (%s)",
		e.Method, e.URL, e.StatusCode, e.StatusText())
}

// StatusText returns the standard text for the status code.
func (e *StatusError) StatusText() string {
	return http.StatusText(e.StatusCode)
}

// IsServerError reports whether the status is in the 5xx class.
func (e *StatusError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode <= 599
}

// IsClientError reports whether the status is in the 4xx class.
func (e *StatusError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode <= 499
}

// TransportError is returned when a request never produced an HTTP response,
// for example because the connection was refused or timed out.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
