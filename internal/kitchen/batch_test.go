package kitchen

import (
	"testing"
	"time"

	"halwahouse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBatchConcatenatesTemplates(t *testing.T) {
	s, _, _ := newTestService(t)

	classic, classicTypes := seedTemplate(t, s, "Classic", "Soak", "Boil", "Stir")
	pista, pistaTypes := seedTemplate(t, s, "Pista", "Grind", "Roast")

	batch, err := s.CreateBatch(admin, 2.5, []uint{classic.ID, pista.ID})
	require.NoError(t, err)

	assert.Equal(t, string(models.BatchStatusPending), batch.Status)
	assert.Equal(t, "chef-1", batch.ChefID)
	assert.Equal(t, models.StringSlice{"Classic", "Pista"}, batch.HalwaTypeNames)
	assert.Equal(t, models.UintSlice{classic.ID, pista.ID}, batch.HalwaTypeIDs)

	require.Len(t, batch.Processes, 5)
	want := []uint{classicTypes[0].ID, classicTypes[1].ID, classicTypes[2].ID, pistaTypes[0].ID, pistaTypes[1].ID}
	for i, p := range batch.Processes {
		assert.Equal(t, i+1, p.Sequence)
		assert.Equal(t, want[i], p.ProcessTypeID)
		assert.Nil(t, p.StartTime)
	}
}

func TestCreateBatchValidation(t *testing.T) {
	s, _, _ := newTestService(t)

	classic, _ := seedTemplate(t, s, "Classic", "Boil")

	var verr *ValidationError
	_, err := s.CreateBatch(admin, -1, []uint{classic.ID})
	require.ErrorAs(t, err, &verr)

	_, err = s.CreateBatch(admin, 2, nil)
	require.ErrorAs(t, err, &verr)

	var nferr *NotFoundError
	_, err = s.CreateBatch(admin, 2, []uint{9999})
	require.ErrorAs(t, err, &nferr)
}

func TestCreateBatchRejectsInactiveType(t *testing.T) {
	s, _, _ := newTestService(t)

	classic, _ := seedTemplate(t, s, "Classic", "Boil")
	inactive := false
	_, err := s.UpdateHalwaType(admin, classic.ID, HalwaTypeUpdate{Active: &inactive})
	require.NoError(t, err)

	var verr *ValidationError
	_, err = s.CreateBatch(admin, 2, []uint{classic.ID})
	require.ErrorAs(t, err, &verr)
}

func TestCreateBatchEmptyTemplateContributesNothing(t *testing.T) {
	s, _, _ := newTestService(t)

	classic, _ := seedTemplate(t, s, "Classic", "Soak", "Boil")
	adhoc, err := s.CreateHalwaType(admin, "AdHoc", 4, true)
	require.NoError(t, err)

	// Not an error: the operator may run the extra steps off the clock. The
	// batch just ends up shorter than base_process_count suggested.
	batch, err := s.CreateBatch(admin, 1, []uint{classic.ID, adhoc.ID})
	require.NoError(t, err)
	assert.Len(t, batch.Processes, 2)
	assert.Equal(t, models.StringSlice{"Classic", "AdHoc"}, batch.HalwaTypeNames)
}

func TestTemplateSnapshotIsolation(t *testing.T) {
	s, _, _ := newTestService(t)

	classic, types := seedTemplate(t, s, "Classic", "Soak", "Boil", "Stir")

	batch, err := s.CreateBatch(admin, 2, []uint{classic.ID})
	require.NoError(t, err)

	// Rework the template after the batch exists: remove a step, move
	// another, add a new one.
	report, err := s.ListTemplate(classic.ID)
	require.NoError(t, err)
	require.NoError(t, s.RemoveMapping(admin, report.Steps[0].Mapping.ID))
	_, err = s.UpsertMapping(admin, classic.ID, types[2].ID, 1)
	require.NoError(t, err)
	glaze, err := s.CreateProcessType("Glaze", 5, 1)
	require.NoError(t, err)
	_, err = s.UpsertMapping(admin, classic.ID, glaze.ID, 3)
	require.NoError(t, err)

	// The batch's snapshot is untouched.
	reloaded, err := s.GetBatch(batch.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Processes, 3)
	assert.Equal(t, types[0].ID, reloaded.Processes[0].ProcessTypeID)
	assert.Equal(t, types[1].ID, reloaded.Processes[1].ProcessTypeID)
	assert.Equal(t, types[2].ID, reloaded.Processes[2].ProcessTypeID)
}

func runProcess(t *testing.T, s *Service, clock *fakeClock, processID uint, d time.Duration) {
	t.Helper()
	_, err := s.StartProcess(processID)
	require.NoError(t, err)
	clock.Advance(d)
	_, err = s.StopProcess(processID)
	require.NoError(t, err)
}

func TestValidateBatchPersistsAndFreezes(t *testing.T) {
	s, clock, _ := newTestService(t)

	classic, _ := seedTemplate(t, s, "Classic", "Soak", "Boil")
	batch, err := s.CreateBatch(admin, 2, []uint{classic.ID})
	require.NoError(t, err)

	runProcess(t, s, clock, batch.Processes[0].ID, 10*time.Minute)
	runProcess(t, s, clock, batch.Processes[1].ID, 13*time.Minute)

	report, err := s.ValidateBatch(batch.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BatchResultModerate, report.Status)
	assert.InDelta(t, 23, report.TotalDuration, 1e-9)
	assert.False(t, report.Partial)

	reloaded, err := s.GetBatch(batch.ID)
	require.NoError(t, err)
	assert.Equal(t, string(models.BatchResultModerate), reloaded.Status)
	assert.InDelta(t, 23, reloaded.TotalDuration, 1e-9)

	// Finalized means frozen: no more timing edits, no re-validation.
	var perr *PreconditionError
	_, err = s.StartProcess(batch.Processes[0].ID)
	require.ErrorAs(t, err, &perr)
	_, err = s.StopProcess(batch.Processes[1].ID)
	require.ErrorAs(t, err, &perr)

	var cerr *ConflictError
	_, err = s.ValidateBatch(batch.ID)
	require.ErrorAs(t, err, &cerr)
}

func TestValidateBatchWithUnfinishedProcessesIsPartial(t *testing.T) {
	s, clock, _ := newTestService(t)

	classic, _ := seedTemplate(t, s, "Classic", "Soak", "Boil")
	batch, err := s.CreateBatch(admin, 2, []uint{classic.ID})
	require.NoError(t, err)

	runProcess(t, s, clock, batch.Processes[0].ID, 10*time.Minute)
	// Second process never stopped.
	_, err = s.StartProcess(batch.Processes[1].ID)
	require.NoError(t, err)

	report, err := s.ValidateBatch(batch.ID)
	require.NoError(t, err)
	assert.True(t, report.Partial)
	assert.Equal(t, 1, report.UnfinishedProcesses)
	assert.Equal(t, models.BatchResultGood, report.Status)
}

func TestPreviewBatchDoesNotPersist(t *testing.T) {
	s, clock, _ := newTestService(t)

	classic, _ := seedTemplate(t, s, "Classic", "Boil")
	batch, err := s.CreateBatch(admin, 2, []uint{classic.ID})
	require.NoError(t, err)

	runProcess(t, s, clock, batch.Processes[0].ID, 30*time.Minute)

	report, err := s.PreviewBatch(batch.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BatchResultShiftDetected, report.Status)

	reloaded, err := s.GetBatch(batch.ID)
	require.NoError(t, err)
	assert.Equal(t, string(models.BatchStatusPending), reloaded.Status)
	assert.Zero(t, reloaded.TotalDuration)
}

func TestEndToEndScenario(t *testing.T) {
	s, clock, _ := newTestService(t)

	boil, err := s.CreateProcessType("Boil", 30, 5)
	require.NoError(t, err)
	classic, err := s.CreateHalwaType(admin, "Classic", 1, true)
	require.NoError(t, err)
	_, err = s.UpsertMapping(admin, classic.ID, boil.ID, 1)
	require.NoError(t, err)

	batch, err := s.CreateBatch(admin, 2, []uint{classic.ID})
	require.NoError(t, err)
	require.Len(t, batch.Processes, 1)
	assert.Equal(t, boil.ID, batch.Processes[0].ProcessTypeID)

	runProcess(t, s, clock, batch.Processes[0].ID, 33*time.Minute)

	report, err := s.ValidateBatch(batch.ID)
	require.NoError(t, err)
	require.Len(t, report.Checks, 1)
	assert.Equal(t, models.ProcessCheckOK, report.Checks[0].Status)
	assert.InDelta(t, 33, report.Checks[0].DurationMinutes, 1e-9)
	assert.Equal(t, models.BatchResultGood, report.Status)
}
