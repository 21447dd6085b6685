// Package directory implements the employee directory facade: it forwards
// operations to the upstream API and answers from the local fallback store
// when the upstream fails in a recoverable way.
package directory

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/staffdir/pkg/fallback"
	"github.com/hashicorp-forge/staffdir/pkg/models"
	"github.com/hashicorp-forge/staffdir/pkg/upstream"
	"github.com/hashicorp-forge/staffdir/pkg/validator"
)

// Upstream is the transport used to reach the upstream directory.
// *upstream.Client implements it.
type Upstream interface {
	Get(ctx context.Context, path string) (*models.Envelope, error)
	Post(ctx context.Context, path string, body any) (*models.Envelope, error)
	Delete(ctx context.Context, path string) error
}

var _ Upstream = (*upstream.Client)(nil)

// SalaryOrder selects the direction of a salary ranking.
type SalaryOrder int

const (
	Ascending SalaryOrder = iota
	Descending
)

func (o SalaryOrder) String() string {
	if o == Descending {
		return "descending"
	}
	return "ascending"
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger hclog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithFallbackOnTransportError makes connection-level failures (refused
// connections, timeouts) switch to the fallback store. By default only 5xx
// responses and unusable response bodies do.
func WithFallbackOnTransportError(enabled bool) Option {
	return func(s *Service) {
		s.fallbackOnTransport = enabled
	}
}

// Service is the employee directory facade.
type Service struct {
	upstream Upstream
	store    *fallback.Store
	logger   hclog.Logger

	fallbackOnTransport bool
}

// NewService creates a Service that reads from up and falls back to store.
func NewService(up Upstream, store *fallback.Store, opts ...Option) *Service {
	s := &Service{
		upstream: up,
		store:    store,
		logger:   hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the fallback store.
func (s *Service) Store() *fallback.Store {
	return s.store
}

// ListAll returns every employee. A nil result (with a nil error) means the
// upstream answered without a data field, which is distinct from an empty
// list.
func (s *Service) ListAll(ctx context.Context) (models.Employees, error) {
	const op = "ListAll"

	env, err := s.upstream.Get(ctx, "/employees")
	var payload models.Payload
	if err == nil {
		payload, err = env.ListPayload()
	}

	switch s.classify(err) {
	case resultOK:
		return payload.List, nil
	case resultFallback:
		s.logFallback(op, err)
		return s.store.All(), nil
	default:
		return nil, s.upstreamError(op, err)
	}
}

// Search returns the employees whose name contains name, ignoring case. The
// result is empty, never nil, when nothing matches or no data is available.
func (s *Service) Search(ctx context.Context, name string) (models.Employees, error) {
	const op = "Search"

	if !validator.IsAlphaNumericOrBlank(name) {
		return nil, validationError(op,
			"Name not valid! Only AlphaNumeric characters are allowed", nil)
	}

	all, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(name)
	matches := models.Employees{}
	for _, emp := range all {
		if strings.Contains(strings.ToLower(emp.Name), needle) {
			matches = append(matches, emp)
		}
	}

	return matches, nil
}

// GetByID returns the employee with the given ID, or nil if there is none.
func (s *Service) GetByID(ctx context.Context, id string) (*models.Employee, error) {
	const op = "GetByID"

	if !validator.IsNumericOrBlank(id) {
		return nil, validationError(op, "Id not valid! Only numbers are allowed", nil)
	}

	env, err := s.upstream.Get(ctx, "/employee/"+url.PathEscape(id))
	var payload models.Payload
	if err == nil {
		payload, err = env.SinglePayload()
	}

	switch s.classify(err) {
	case resultOK:
		return payload.Single, nil
	case resultFallback:
		s.logFallback(op, err)
		return s.store.ByID(id), nil
	default:
		return nil, s.upstreamError(op, err)
	}
}

// RankBySalary returns every employee ordered by salary. Salaries are
// compared by length first and then lexically, never numerically, so "20"
// ranks below "100". Employees with identical salaries keep their relative
// order in both directions. A nil or empty listing is returned unchanged.
func (s *Service) RankBySalary(ctx context.Context, order SalaryOrder) (models.Employees, error) {
	all, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return all, nil
	}

	slices.SortStableFunc(all, func(a, b models.Employee) int {
		if order == Descending {
			return compareSalary(b, a)
		}
		return compareSalary(a, b)
	})

	return all, nil
}

// compareSalary orders by salary length in characters, then lexically.
func compareSalary(a, b models.Employee) int {
	if c := cmp.Compare(
		utf8.RuneCountInString(a.Salary),
		utf8.RuneCountInString(b.Salary),
	); c != 0 {
		return c
	}
	return strings.Compare(a.Salary, b.Salary)
}

// Create validates emp and creates it upstream, or in the fallback store if
// the upstream is unavailable. The returned employee carries its assigned ID.
func (s *Service) Create(ctx context.Context, emp models.Employee) (models.Employee, error) {
	const op = "Create"

	if err := validator.ValidateEmployee(&emp); err != nil {
		return models.Employee{}, validationError(op, "Employee fields not valid!", err)
	}

	env, err := s.upstream.Post(ctx, "/create", emp)
	var payload models.Payload
	if err == nil {
		payload, err = env.SinglePayload()
	}
	if err == nil && payload.Kind == models.PayloadAbsent {
		err = fmt.Errorf("create response had no data: %w", upstream.ErrEmptyResponse)
	}

	switch s.classify(err) {
	case resultOK:
		return *payload.Single, nil
	case resultFallback:
		s.logFallback(op, err)
		created := s.store.Create(emp)
		s.logger.Info("created employee in fallback store", "id", created.ID)
		return created, nil
	default:
		return models.Employee{}, s.upstreamError(op, err)
	}
}

// DeleteByID deletes the employee with the given ID. Deleting an unknown ID
// from the fallback store is not an error.
func (s *Service) DeleteByID(ctx context.Context, id string) error {
	const op = "DeleteByID"

	if !validator.IsNumericOrBlank(id) {
		return validationError(op, "Id not valid! Only numbers are allowed", nil)
	}

	err := s.upstream.Delete(ctx, "/delete/"+url.PathEscape(id))

	switch s.classify(err) {
	case resultOK:
		return nil
	case resultFallback:
		s.logFallback(op, err)
		removed := s.store.DeleteByID(id)
		s.logger.Info("deleted employee from fallback store", "id", id, "removed", removed)
		return nil
	default:
		return s.upstreamError(op, err)
	}
}

// result is the outcome of a single upstream attempt.
type result int

const (
	// resultOK means the upstream answered with usable data.
	resultOK result = iota

	// resultFallback means the operation should be answered from the
	// fallback store.
	resultFallback

	// resultFailed means the error must be returned to the caller.
	resultFailed
)

// classify sorts an upstream error into the outcome it calls for. 5xx
// responses, missing or unparseable bodies and payload shape mismatches fall
// back; everything else is returned.
func (s *Service) classify(err error) result {
	if err == nil {
		return resultOK
	}

	var statusErr *upstream.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.IsServerError() {
			return resultFallback
		}
		return resultFailed
	}

	if errors.Is(err, upstream.ErrEmptyResponse) ||
		errors.Is(err, upstream.ErrMalformedResponse) ||
		errors.Is(err, models.ErrPayloadMismatch) {
		return resultFallback
	}

	var transportErr *upstream.TransportError
	if errors.As(err, &transportErr) && s.fallbackOnTransport {
		return resultFallback
	}

	return resultFailed
}

func (s *Service) logFallback(op string, err error) {
	s.logger.Warn("upstream failed, using fallback store", "op", op, "error", err)
}

// upstreamError wraps an upstream error that is not recovered locally.
func (s *Service) upstreamError(op string, err error) error {
	var statusErr *upstream.StatusError
	if errors.As(err, &statusErr) && statusErr.IsClientError() {
		return &Error{
			Op:   op,
			Kind: ErrUpstreamClient,
			Msg:  statusErr.StatusText(),
			Err:  err,
		}
	}

	return &Error{Op: op, Kind: ErrUpstreamUnavailable, Err: err}
}
