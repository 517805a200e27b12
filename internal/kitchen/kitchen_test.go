package kitchen

import (
	"path/filepath"
	"testing"
	"time"

	"halwahouse/internal/database"
	"halwahouse/internal/models"

	"github.com/jinzhu/gorm"
	"github.com/stretchr/testify/require"
)

// fakeClock is a settable clock for exact duration assertions.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func newTestService(t *testing.T) (*Service, *fakeClock, *gorm.DB) {
	t.Helper()

	db, err := database.Open("sqlite3", filepath.Join(t.TempDir(), "kitchen.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	clock := newFakeClock()
	return NewService(db, clock), clock, db
}

var admin = Actor{ChefID: "chef-1", Role: RoleAdmin}

// seedTemplate creates a halwa type with the named steps mapped in order and
// returns it together with the created process types.
func seedTemplate(t *testing.T, s *Service, halwaName string, stepNames ...string) (*models.HalwaType, []models.ProcessType) {
	t.Helper()

	ht, err := s.CreateHalwaType(admin, halwaName, len(stepNames), true)
	require.NoError(t, err)

	var types []models.ProcessType
	for i, name := range stepNames {
		pt, err := s.CreateProcessType(name, 10, 2)
		require.NoError(t, err)
		types = append(types, *pt)

		_, err = s.UpsertMapping(admin, ht.ID, pt.ID, i+1)
		require.NoError(t, err)
	}
	return ht, types
}
