package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp-forge/staffdir/internal/server"
	"github.com/hashicorp-forge/staffdir/pkg/directory"
	"github.com/hashicorp-forge/staffdir/pkg/models"
	"github.com/hashicorp-forge/staffdir/pkg/upstream"
)

// ErrorResponse is the body written for every failed request.
type ErrorResponse struct {
	ErrorCode    int    `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

// parseResourcePath parses an escaped URL path with the format
// "{apiPath}/{a}/{b}..." and returns the non-empty, unescaped path segments
// after apiPath. Splitting happens before unescaping, so an encoded slash
// stays inside its segment. It returns false if the path is not under apiPath
// or a segment has an invalid escape.
func parseResourcePath(escapedPath, apiPath string) ([]string, bool) {
	rest, ok := strings.CutPrefix(escapedPath, apiPath)
	if !ok {
		return nil, false
	}
	// "/api/v1/employeesX" is not under "/api/v1/employees".
	if rest != "" && !strings.HasPrefix(rest, "/") {
		return nil, false
	}

	// Remove empty entries, e.g. from a trailing slash.
	var segments []string
	for _, v := range strings.Split(rest, "/") {
		if v == "" {
			continue
		}
		seg, err := url.PathUnescape(v)
		if err != nil {
			return nil, false
		}
		segments = append(segments, seg)
	}

	return segments, true
}

// decodeFields decodes a JSON object request body into a field map. Numbers
// are kept as json.Number so their exact text survives.
func decodeFields(r *http.Request) (map[string]any, error) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, errors.New("request body is required")
	}

	return fields, nil
}

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(srv server.Server, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	if err := enc.Encode(v); err != nil {
		srv.Logger.Error("error encoding response", "error", err)
	}
}

// respondError writes the error response for err.
func respondError(srv server.Server, w http.ResponseWriter, err error) {
	status, resp := errorResponse(err)
	if status >= http.StatusInternalServerError {
		srv.Logger.Error("request failed", "status", status, "error", err)
	} else {
		srv.Logger.Debug("request rejected", "status", status, "error", err)
	}
	writeJSON(srv, w, status, resp)
}

// errorResponse maps an error to its HTTP status and response body.
func errorResponse(err error) (int, ErrorResponse) {
	var dirErr *directory.Error
	if !errors.As(err, &dirErr) {
		return http.StatusInternalServerError, ErrorResponse{
			ErrorCode:    http.StatusInternalServerError,
			ErrorMessage: "Internal server error",
		}
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, directory.ErrFieldValidation),
		errors.Is(err, directory.ErrDecode):
		status = http.StatusBadRequest
	case errors.Is(err, directory.ErrUpstreamClient):
		// Report the upstream status as the error code.
		code := http.StatusBadRequest
		var statusErr *upstream.StatusError
		if errors.As(err, &statusErr) {
			code = statusErr.StatusCode
		}
		return http.StatusBadRequest, ErrorResponse{
			ErrorCode:    code,
			ErrorMessage: dirErr.Message(),
		}
	case errors.Is(err, directory.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, directory.ErrUpstreamUnavailable):
		status = http.StatusServiceUnavailable
	}

	return status, ErrorResponse{
		ErrorCode:    status,
		ErrorMessage: dirErr.Message(),
	}
}

// topNHighestSalaries returns the salary of at most the first n employees of
// a ranking that is already in descending order. It never returns nil.
func topNHighestSalaries(ranked models.Employees, n int) []string {
	salaries := []string{}
	for i, emp := range ranked {
		if i >= n {
			break
		}
		salaries = append(salaries, emp.Salary)
	}
	return salaries
}

func decodeError(op, msg string, err error) *directory.Error {
	return &directory.Error{
		Op:   op,
		Kind: directory.ErrDecode,
		Msg:  msg,
		Err:  err,
	}
}

func notFoundError(op, id string) *directory.Error {
	return &directory.Error{
		Op:   op,
		Kind: directory.ErrNotFound,
		Msg:  fmt.Sprintf("Employee %s not found", id),
	}
}
