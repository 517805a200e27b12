package kitchen

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProcessType(t *testing.T) {
	s, _, _ := newTestService(t)

	pt, err := s.CreateProcessType("Boil", 30, 5)
	require.NoError(t, err)
	assert.NotZero(t, pt.ID)
	assert.Equal(t, "Boil", pt.Name)
	assert.Equal(t, 30.0, pt.StandardDurationMinutes)
	assert.Equal(t, 5.0, pt.VariationBufferMinutes)
}

func TestCreateProcessTypeRejectsBadInput(t *testing.T) {
	s, _, _ := newTestService(t)

	var verr *ValidationError

	_, err := s.CreateProcessType("  ", 30, 5)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)

	_, err = s.CreateProcessType("Boil", -1, 5)
	require.ErrorAs(t, err, &verr)

	_, err = s.CreateProcessType("Boil", math.NaN(), 5)
	require.ErrorAs(t, err, &verr)

	_, err = s.CreateProcessType("Boil", 30, math.Inf(1))
	require.ErrorAs(t, err, &verr)

	_, err = s.CreateProcessType("Boil", 30, -0.5)
	require.ErrorAs(t, err, &verr)
}

func TestUpdateProcessTypePartial(t *testing.T) {
	s, _, _ := newTestService(t)

	pt, err := s.CreateProcessType("Boil", 30, 5)
	require.NoError(t, err)

	buffer := 3.0
	updated, err := s.UpdateProcessType(pt.ID, ProcessTypeUpdate{VariationBufferMinutes: &buffer})
	require.NoError(t, err)
	assert.Equal(t, "Boil", updated.Name)
	assert.Equal(t, 30.0, updated.StandardDurationMinutes)
	assert.Equal(t, 3.0, updated.VariationBufferMinutes)

	var nferr *NotFoundError
	_, err = s.UpdateProcessType(9999, ProcessTypeUpdate{})
	require.ErrorAs(t, err, &nferr)
}

func TestListProcessTypes(t *testing.T) {
	s, _, _ := newTestService(t)

	_, err := s.CreateProcessType("Boil", 30, 5)
	require.NoError(t, err)
	_, err = s.CreateProcessType("Stir", 15, 2)
	require.NoError(t, err)

	types, err := s.ListProcessTypes()
	require.NoError(t, err)
	require.Len(t, types, 2)
	assert.Equal(t, "Boil", types[0].Name)
	assert.Equal(t, "Stir", types[1].Name)
}

func TestHalwaTypeRoleGate(t *testing.T) {
	s, _, _ := newTestService(t)

	chef := Actor{ChefID: "chef-2", Role: RoleChef}

	var perr *PreconditionError
	_, err := s.CreateHalwaType(chef, "Classic", 3, true)
	require.ErrorAs(t, err, &perr)

	ht, err := s.CreateHalwaType(admin, "Classic", 3, true)
	require.NoError(t, err)

	_, err = s.UpdateHalwaType(chef, ht.ID, HalwaTypeUpdate{})
	require.ErrorAs(t, err, &perr)
}

func TestUpdateHalwaTypeDeactivation(t *testing.T) {
	s, _, _ := newTestService(t)

	ht, err := s.CreateHalwaType(admin, "Classic", 3, true)
	require.NoError(t, err)

	inactive := false
	updated, err := s.UpdateHalwaType(admin, ht.ID, HalwaTypeUpdate{Active: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.Active)

	// Deactivation must actually reach the store, not just the struct.
	all, err := s.ListHalwaTypes(false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].Active)
}

func TestListHalwaTypesActiveFilter(t *testing.T) {
	s, _, _ := newTestService(t)

	_, err := s.CreateHalwaType(admin, "Classic", 3, true)
	require.NoError(t, err)
	_, err = s.CreateHalwaType(admin, "Retired", 2, false)
	require.NoError(t, err)

	active, err := s.ListHalwaTypes(true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Classic", active[0].Name)

	all, err := s.ListHalwaTypes(false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
