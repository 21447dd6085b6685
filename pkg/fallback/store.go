// Package fallback provides the in-memory employee snapshot that serves
// requests while the upstream directory is unavailable.
package fallback

import (
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/staffdir/pkg/models"
)

// Store is an insertion-ordered, lock-guarded collection of employees. The
// zero value is not usable; create one with NewStore.
type Store struct {
	mu        sync.RWMutex
	employees models.Employees

	// lastID is the most recently assigned identifier.
	lastID int64

	// now is replaceable in tests.
	now func() time.Time

	logger hclog.Logger
}

// NewStore creates an empty store.
func NewStore(logger hclog.Logger) *Store {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Store{
		employees: models.Employees{},
		now:       time.Now,
		logger:    logger,
	}
}

// Seed replaces the contents of the store with employees.
func (s *Store) Seed(employees models.Employees) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.employees = make(models.Employees, len(employees))
	copy(s.employees, employees)
	s.logger.Info("seeded fallback store", "employees", len(employees))
}

// Len returns the number of stored employees.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.employees)
}

// All returns a copy of every stored employee in insertion order.
func (s *Store) All() models.Employees {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(models.Employees, len(s.employees))
	copy(out, s.employees)
	return out
}

// ByID returns the first employee with the given ID, or nil if there is none.
func (s *Store) ByID(id string) *models.Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, emp := range s.employees {
		if emp.ID == id {
			found := emp
			return &found
		}
	}
	return nil
}

// Create assigns emp a fresh identifier, appends it and returns the stored
// copy. Identifiers are the current Unix time in milliseconds, bumped past the
// previous identifier when two creations land in the same millisecond.
func (s *Store) Create(emp models.Employee) models.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id

	emp.ID = strconv.FormatInt(id, 10)
	s.employees = append(s.employees, emp)
	s.logger.Debug("created fallback employee", "id", emp.ID)

	return emp
}

// DeleteByID removes every employee with the given ID and returns how many
// were removed. Deleting an unknown ID is not an error.
func (s *Store) DeleteByID(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.employees[:0]
	for _, emp := range s.employees {
		if emp.ID != id {
			kept = append(kept, emp)
		}
	}
	removed := len(s.employees) - len(kept)

	// Clear the tail so removed records are not retained by the backing array.
	for i := len(kept); i < len(s.employees); i++ {
		s.employees[i] = models.Employee{}
	}
	s.employees = kept

	if removed > 0 {
		s.logger.Debug("deleted fallback employee", "id", id, "removed", removed)
	}
	return removed
}
