package kitchen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartProcessIsIdempotent(t *testing.T) {
	s, clock, _ := newTestService(t)

	classic, _ := seedTemplate(t, s, "Classic", "Boil")
	batch, err := s.CreateBatch(admin, 2, []uint{classic.ID})
	require.NoError(t, err)
	processID := batch.Processes[0].ID

	first, err := s.StartProcess(processID)
	require.NoError(t, err)
	require.NotNil(t, first.StartTime)

	// A second start minutes later must not reset the clock.
	clock.Advance(7 * time.Minute)
	second, err := s.StartProcess(processID)
	require.NoError(t, err)
	require.NotNil(t, second.StartTime)
	assert.True(t, first.StartTime.Equal(*second.StartTime))
}

func TestStopDerivesFractionalMinutes(t *testing.T) {
	s, clock, _ := newTestService(t)

	classic, _ := seedTemplate(t, s, "Classic", "Boil")
	batch, err := s.CreateBatch(admin, 2, []uint{classic.ID})
	require.NoError(t, err)
	processID := batch.Processes[0].ID

	_, err = s.StartProcess(processID)
	require.NoError(t, err)

	clock.Advance(12*time.Minute + 30*time.Second)
	stopped, err := s.StopProcess(processID)
	require.NoError(t, err)

	require.NotNil(t, stopped.DurationMinutes)
	assert.InDelta(t, 12.5, *stopped.DurationMinutes, 1e-9)
	assert.True(t, stopped.IsFinished())
}

func TestStopBeforeStartFails(t *testing.T) {
	s, _, _ := newTestService(t)

	classic, _ := seedTemplate(t, s, "Classic", "Boil")
	batch, err := s.CreateBatch(admin, 2, []uint{classic.ID})
	require.NoError(t, err)

	var perr *PreconditionError
	_, err = s.StopProcess(batch.Processes[0].ID)
	require.ErrorAs(t, err, &perr)
}

func TestDoubleStopFails(t *testing.T) {
	s, clock, _ := newTestService(t)

	classic, _ := seedTemplate(t, s, "Classic", "Boil")
	batch, err := s.CreateBatch(admin, 2, []uint{classic.ID})
	require.NoError(t, err)
	processID := batch.Processes[0].ID

	_, err = s.StartProcess(processID)
	require.NoError(t, err)
	clock.Advance(time.Minute)
	_, err = s.StopProcess(processID)
	require.NoError(t, err)

	var perr *PreconditionError
	_, err = s.StopProcess(processID)
	require.ErrorAs(t, err, &perr)
}

func TestTimerOnUnknownProcess(t *testing.T) {
	s, _, _ := newTestService(t)

	var nferr *NotFoundError
	_, err := s.StartProcess(4242)
	require.ErrorAs(t, err, &nferr)
	_, err = s.StopProcess(4242)
	require.ErrorAs(t, err, &nferr)
}
