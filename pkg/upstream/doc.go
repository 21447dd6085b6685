// Package upstream provides the HTTP client for the third-party employee
// directory API that staffdir fronts.
//
// # Endpoints Used
//
//   - GET    {base_url}/employees
//   - GET    {base_url}/employee/:id
//   - POST   {base_url}/create
//   - DELETE {base_url}/delete/:id
//
// Every response is wrapped in an envelope:
//
//	{"status": "success", "data": ..., "message": "..."}
//
// The client only decodes the envelope itself. Interpreting the data field as
// a single employee or a list is left to the caller (see models.Envelope).
//
// # Error Handling
//
// Failures are reported with distinct types so callers can decide what to
// recover from:
//   - *StatusError for any non-2xx response
//   - *TransportError when no response was received
//   - ErrEmptyResponse when a 2xx response had no body
//   - ErrMalformedResponse when a body was not a valid envelope
//
// Retries are disabled by default. When max_retries is set, transport
// failures and 5xx responses are retried with exponential backoff.
package upstream
