package directory

import (
	"errors"
	"strings"
)

// Error kinds. Use errors.Is to test an error returned by Service against
// one of these.
var (
	// ErrFieldValidation means a caller-supplied value failed a format rule.
	ErrFieldValidation = errors.New("field validation failed")

	// ErrUpstreamUnavailable means the upstream could not be reached or
	// failed in a way the fallback store does not cover.
	ErrUpstreamUnavailable = errors.New("upstream directory unavailable")

	// ErrUpstreamClient means the upstream rejected the request with a 4xx
	// status.
	ErrUpstreamClient = errors.New("upstream directory rejected request")

	// ErrDecode means data did not have the expected shape or format.
	ErrDecode = errors.New("malformed employee data")

	// ErrNotFound means no employee matched the request.
	ErrNotFound = errors.New("employee not found")
)

// Error is the error type returned by Service operations.
type Error struct {
	// Op is the operation that failed, e.g. "GetByID".
	Op string

	// Kind is one of the Err* sentinels above.
	Kind error

	// Msg is a human-readable description suitable for API clients.
	Msg string

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(e.Message())
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Message returns Msg, or the text of Kind when Msg is empty.
func (e *Error) Message() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Kind != nil {
		return e.Kind.Error()
	}
	return "unknown error"
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func validationError(op, msg string, cause error) *Error {
	return &Error{Op: op, Kind: ErrFieldValidation, Msg: msg, Err: cause}
}
