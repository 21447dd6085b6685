package fallback

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/staffdir/pkg/models"
)

func testEmployees() models.Employees {
	return models.Employees{
		{ID: "1", Name: "Tiger Nixon", Salary: "320800", Age: "61"},
		{ID: "2", Name: "Garrett Winters", Salary: "170750", Age: "63"},
		{ID: "3", Name: "Ashton Cox", Salary: "86000", Age: "66"},
	}
}

func TestStore_AllPreservesOrder(t *testing.T) {
	s := NewStore(nil)
	assert.Empty(t, s.All())

	s.Seed(testEmployees())
	assert.Equal(t, testEmployees(), s.All())
	assert.Equal(t, 3, s.Len())
}

func TestStore_AllReturnsCopy(t *testing.T) {
	s := NewStore(nil)
	s.Seed(testEmployees())

	all := s.All()
	all[0].Name = "changed"

	assert.Equal(t, "Tiger Nixon", s.All()[0].Name)
}

func TestStore_ByID(t *testing.T) {
	s := NewStore(nil)
	s.Seed(testEmployees())

	emp := s.ByID("2")
	require.NotNil(t, emp)
	assert.Equal(t, "Garrett Winters", emp.Name)

	assert.Nil(t, s.ByID("99"))
	assert.Nil(t, s.ByID(""))
}

func TestStore_CreateThenByID(t *testing.T) {
	s := NewStore(nil)
	s.Seed(testEmployees())

	created := s.Create(models.Employee{Name: "dummy", Salary: "12345", Age: "30"})
	require.NotEmpty(t, created.ID)

	_, err := strconv.ParseInt(created.ID, 10, 64)
	require.NoError(t, err, "assigned id should be numeric")

	got := s.ByID(created.ID)
	require.NotNil(t, got)
	assert.Equal(t, created, *got)
	assert.Equal(t, 4, s.Len())
	assert.Equal(t, created, s.All()[3])
}

func TestStore_CreateOverwritesCallerID(t *testing.T) {
	s := NewStore(nil)
	created := s.Create(models.Employee{ID: "1", Name: "dummy"})
	assert.NotEqual(t, "1", created.ID)
}

func TestStore_CreateIDsAreTimeDerivedAndMonotonic(t *testing.T) {
	fixed := time.UnixMilli(1700000000000)
	s := NewStore(nil)
	s.now = func() time.Time { return fixed }

	a := s.Create(models.Employee{Name: "a"})
	b := s.Create(models.Employee{Name: "b"})
	c := s.Create(models.Employee{Name: "c"})

	assert.Equal(t, "1700000000000", a.ID)
	assert.Equal(t, "1700000000001", b.ID)
	assert.Equal(t, "1700000000002", c.ID)

	// A clock that moves past the counter takes over again.
	s.now = func() time.Time { return fixed.Add(time.Second) }
	d := s.Create(models.Employee{Name: "d"})
	assert.Equal(t, "1700000001000", d.ID)
}

func TestStore_ConcurrentCreateYieldsUniqueIDs(t *testing.T) {
	s := NewStore(nil)

	const n = 200
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- s.Create(models.Employee{Name: "worker"}).ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool, n)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
	assert.Equal(t, n, s.Len())
}

func TestStore_DeleteByID(t *testing.T) {
	t.Run("removes matching employee", func(t *testing.T) {
		s := NewStore(nil)
		s.Seed(testEmployees())

		assert.Equal(t, 1, s.DeleteByID("2"))
		assert.Nil(t, s.ByID("2"))
		assert.Equal(t, []string{"1", "3"}, ids(s.All()))
	})

	t.Run("removes all duplicates", func(t *testing.T) {
		s := NewStore(nil)
		s.Seed(models.Employees{{ID: "5"}, {ID: "6"}, {ID: "5"}})

		assert.Equal(t, 2, s.DeleteByID("5"))
		assert.Equal(t, []string{"6"}, ids(s.All()))
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		s := NewStore(nil)
		s.Seed(testEmployees())

		assert.Equal(t, 0, s.DeleteByID("1000"))
		assert.Equal(t, testEmployees(), s.All())
	})
}

func ids(emps models.Employees) []string {
	out := make([]string, 0, len(emps))
	for _, e := range emps {
		out = append(out, e.ID)
	}
	return out
}
