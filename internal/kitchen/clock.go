package kitchen

import "time"

// Clock supplies wall-clock timestamps for process start/stop recording.
// Minute-level fidelity is all the engine needs; tests substitute a fixed
// clock to get exact durations.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }
