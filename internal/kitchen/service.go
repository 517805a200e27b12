package kitchen

import (
	"math"

	"github.com/jinzhu/gorm"
)

// Service is the kitchen production engine: template catalogs, batch
// instantiation, process timing and tolerance validation. It treats the
// database as an opaque CRUD+query store and performs no retries of its own;
// every failure is returned synchronously to the caller.
type Service struct {
	db    *gorm.DB
	clock Clock
}

// NewService creates an engine bound to a database and clock.
func NewService(db *gorm.DB, clock Clock) *Service {
	if clock == nil {
		clock = SystemClock()
	}
	return &Service{db: db, clock: clock}
}

// Actor identifies the operator performing a mutating call. The engine does
// no session lookup of its own; callers pass the capability in explicitly.
type Actor struct {
	ChefID string `json:"chef_id"`
	Role   string `json:"role"`
}

const (
	RoleAdmin = "admin"
	RoleChef  = "chef"
)

// CanEditTemplates reports whether the actor may mutate halwa types and
// their templates.
func (a Actor) CanEditTemplates() bool {
	return a.Role == RoleAdmin
}

// finiteNonNegative verifies a numeric input is a usable quantity.
func finiteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
