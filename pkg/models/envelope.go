package models

import (
	"errors"
	"fmt"
)

// ErrPayloadMismatch is returned when the data field of an envelope does not
// have the shape the caller asked for.
var ErrPayloadMismatch = errors.New("envelope payload does not match expected shape")

// Envelope is the wrapper the upstream employee directory puts around every
// response body.
type Envelope struct {
	Status  string `json:"status"`
	Data    any    `json:"data"`
	Message string `json:"message"`
}

// PayloadKind describes what an envelope's data field holds.
type PayloadKind int

const (
	// PayloadAbsent means the data field was missing or null.
	PayloadAbsent PayloadKind = iota

	// PayloadSingle means the data field held a single employee object.
	PayloadSingle

	// PayloadList means the data field held a list of employee objects.
	PayloadList
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadAbsent:
		return "absent"
	case PayloadSingle:
		return "single"
	case PayloadList:
		return "list"
	default:
		return fmt.Sprintf("PayloadKind(%d)", int(k))
	}
}

// Payload is the decoded data field of an envelope. Exactly one of Single or
// List is set, according to Kind; both are nil when Kind is PayloadAbsent.
type Payload struct {
	Kind   PayloadKind
	Single *Employee
	List   Employees
}

// PayloadError describes a data field that could not be decoded as requested.
type PayloadError struct {
	Want PayloadKind
	Got  string
	Err  error
}

func (e *PayloadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decoding %s payload from %s: %v", e.Want, e.Got, e.Err)
	}
	return fmt.Sprintf("decoding %s payload from %s: %v", e.Want, e.Got, ErrPayloadMismatch)
}

func (e *PayloadError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrPayloadMismatch, e.Err}
	}
	return []error{ErrPayloadMismatch}
}

// ListPayload decodes the envelope's data field as a list of employees. A
// missing or null data field yields a PayloadAbsent payload, not an error.
func (e *Envelope) ListPayload() (Payload, error) {
	if e == nil || e.Data == nil {
		return Payload{Kind: PayloadAbsent}, nil
	}

	items, ok := e.Data.([]any)
	if !ok {
		return Payload{}, &PayloadError{Want: PayloadList, Got: fmt.Sprintf("%T", e.Data)}
	}

	list := make(Employees, 0, len(items))
	for i, item := range items {
		if _, ok := item.(map[string]any); !ok {
			return Payload{}, &PayloadError{
				Want: PayloadList,
				Got:  fmt.Sprintf("element %d of type %T", i, item),
			}
		}
		var emp Employee
		if err := decodeEmployee(item, &emp); err != nil {
			return Payload{}, &PayloadError{
				Want: PayloadList,
				Got:  fmt.Sprintf("element %d", i),
				Err:  err,
			}
		}
		list = append(list, emp)
	}

	return Payload{Kind: PayloadList, List: list}, nil
}

// SinglePayload decodes the envelope's data field as a single employee. A
// missing or null data field yields a PayloadAbsent payload, not an error.
func (e *Envelope) SinglePayload() (Payload, error) {
	if e == nil || e.Data == nil {
		return Payload{Kind: PayloadAbsent}, nil
	}

	if _, ok := e.Data.(map[string]any); !ok {
		return Payload{}, &PayloadError{Want: PayloadSingle, Got: fmt.Sprintf("%T", e.Data)}
	}

	var emp Employee
	if err := decodeEmployee(e.Data, &emp); err != nil {
		return Payload{}, &PayloadError{Want: PayloadSingle, Got: "object", Err: err}
	}

	return Payload{Kind: PayloadSingle, Single: &emp}, nil
}
