package fallback

import (
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/staffdir/pkg/models"
)

func TestLoadSnapshot_Embedded(t *testing.T) {
	emps, err := LoadSnapshot(EmbeddedFs(), DefaultSnapshotPath)
	require.NoError(t, err)
	require.Len(t, emps, 24)
	assert.Equal(t, "Tiger Nixon", emps[0].Name)
	assert.NoError(t, ValidateSnapshot(emps))
}

func TestLoadSnapshot(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/seed/list.json", []byte(`[
		{"id":"1","employee_name":"Tiger Nixon","employee_salary":"320800","employee_age":"61","profile_image":""},
		{"id":2,"employee_name":"Garrett Winters","employee_salary":170750,"employee_age":63}
	]`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/seed/envelope.json", []byte(`{
		"status":"success",
		"data":[{"id":"1","employee_name":"Tiger Nixon"}],
		"message":"ok"
	}`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/seed/list.yaml", []byte(`
- id: "1"
  employee_name: Tiger Nixon
  employee_salary: "320800"
  employee_age: 61
`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/seed/null.json", []byte(`null`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/seed/broken.json", []byte(`[{`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/seed/object.json", []byte(`{"data":{"id":"1"}}`), 0o644))

	t.Run("json list", func(t *testing.T) {
		emps, err := LoadSnapshot(fs, "/seed/list.json")
		require.NoError(t, err)
		require.Len(t, emps, 2)
		assert.Equal(t, models.Employee{ID: "2", Name: "Garrett Winters", Salary: "170750", Age: "63"}, emps[1])
	})

	t.Run("json envelope", func(t *testing.T) {
		emps, err := LoadSnapshot(fs, "/seed/envelope.json")
		require.NoError(t, err)
		require.Len(t, emps, 1)
		assert.Equal(t, "Tiger Nixon", emps[0].Name)
	})

	t.Run("yaml list", func(t *testing.T) {
		emps, err := LoadSnapshot(fs, "/seed/list.yaml")
		require.NoError(t, err)
		require.Len(t, emps, 1)
		assert.Equal(t, models.Employee{ID: "1", Name: "Tiger Nixon", Salary: "320800", Age: "61"}, emps[0])
	})

	t.Run("null document", func(t *testing.T) {
		emps, err := LoadSnapshot(fs, "/seed/null.json")
		require.NoError(t, err)
		assert.Empty(t, emps)
	})

	t.Run("broken json", func(t *testing.T) {
		_, err := LoadSnapshot(fs, "/seed/broken.json")
		assert.Error(t, err)
	})

	t.Run("wrong shape", func(t *testing.T) {
		_, err := LoadSnapshot(fs, "/seed/object.json")
		assert.ErrorIs(t, err, models.ErrPayloadMismatch)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadSnapshot(fs, "/seed/missing.json")
		assert.Error(t, err)
	})
}

func TestValidateSnapshot(t *testing.T) {
	err := ValidateSnapshot(models.Employees{
		{ID: "1", Name: "ok"},
		{ID: "x", Name: "bad id"},
		{ID: "3", Name: "bad!"},
		{ID: "1", Name: "duplicate"},
		{Name: "no id"},
	})
	require.Error(t, err)

	merr, ok := err.(*multierror.Error)
	require.True(t, ok)
	assert.Len(t, merr.Errors, 3)
	assert.Contains(t, err.Error(), `duplicate id "1"`)
}

func TestStore_SeedFromFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "seed.json",
		[]byte(`[{"id":"7","employee_name":"Seven"}]`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "bad.json", []byte(`not json`), 0o644))

	t.Run("loads records", func(t *testing.T) {
		s := NewStore(nil)
		require.NoError(t, s.SeedFromFile(fs, "seed.json"))
		require.NotNil(t, s.ByID("7"))
	})

	t.Run("failure leaves store empty", func(t *testing.T) {
		s := NewStore(nil)
		s.Seed(testEmployees())

		err := s.SeedFromFile(fs, "bad.json")
		assert.Error(t, err)
		assert.Equal(t, 0, s.Len())
		assert.NotNil(t, s.All())
	})
}
