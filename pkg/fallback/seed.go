package fallback

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/hashicorp-forge/staffdir/pkg/models"
	"github.com/hashicorp-forge/staffdir/pkg/validator"
)

// DefaultSnapshotPath is the path of the built-in snapshot inside the
// filesystem returned by EmbeddedFs.
const DefaultSnapshotPath = "seed/employees.json"

//go:embed seed/employees.json
var embeddedSnapshot embed.FS

// EmbeddedFs returns a read-only filesystem holding the built-in snapshot at
// DefaultSnapshotPath.
func EmbeddedFs() afero.Fs {
	return afero.FromIOFS{FS: embeddedSnapshot}
}

// LoadSnapshot reads a snapshot of employees from path. Files ending in .yaml
// or .yml are parsed as YAML and everything else as JSON. The document may be
// either a bare list of employees or an upstream envelope whose data field is
// that list.
func LoadSnapshot(fs afero.Fs, path string) (models.Employees, error) {
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("error reading snapshot: %w", err)
	}

	var doc any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &doc); err != nil {
			return nil, fmt.Errorf("error parsing YAML snapshot: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("error parsing JSON snapshot: %w", err)
		}
	}

	env := &models.Envelope{Data: doc}
	if m, ok := doc.(map[string]any); ok {
		env.Data = m["data"]
	}

	payload, err := env.ListPayload()
	if err != nil {
		return nil, fmt.Errorf("error decoding snapshot: %w", err)
	}
	if payload.Kind == models.PayloadAbsent {
		return models.Employees{}, nil
	}

	return payload.List, nil
}

// ValidateSnapshot checks every employee in a snapshot against the field
// rules and duplicate IDs, returning all problems found.
func ValidateSnapshot(employees models.Employees) error {
	var result *multierror.Error

	seen := make(map[string]int, len(employees))
	for i := range employees {
		emp := employees[i]
		if err := validator.ValidateEmployee(&emp); err != nil {
			result = multierror.Append(result,
				fmt.Errorf("employee %d (id %q): %w", i, emp.ID, err))
		}
		if emp.ID == "" {
			continue
		}
		if prev, ok := seen[emp.ID]; ok {
			result = multierror.Append(result,
				fmt.Errorf("employee %d: duplicate id %q (first seen at %d)",
					i, emp.ID, prev))
			continue
		}
		seen[emp.ID] = i
	}

	return result.ErrorOrNil()
}

// SeedFromFile loads the snapshot at path into the store. If the snapshot
// cannot be loaded the failure is logged, the store is left empty and the
// error is returned for the caller's information.
func (s *Store) SeedFromFile(fs afero.Fs, path string) error {
	employees, err := LoadSnapshot(fs, path)
	if err != nil {
		s.logger.Error("error loading fallback snapshot, continuing with empty store",
			"path", path, "error", err)
		s.Seed(nil)
		return err
	}

	if err := ValidateSnapshot(employees); err != nil {
		s.logger.Warn("fallback snapshot has invalid employees",
			"path", path, "error", err)
	}

	s.Seed(employees)
	return nil
}
