// File: internal/monitor/recorder.go
package monitor

import (
	"time"

	"github.com/xkilldash9x/chimera/api/schemas"
)

// Recorder accumulates a bounded, time-ordered log of observations. When the
// buffer is full the oldest entries are discarded silently; eviction is a
// policy, not an error.
type Recorder struct {
	cap          int
	observations []schemas.Observation
	evicted      int
}

// NewRecorder creates a recorder with the given capacity. Non-positive caps
// fall back to the default of 100.
func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = 100
	}
	return &Recorder{
		cap:          capacity,
		observations: make([]schemas.Observation, 0, capacity),
	}
}

// Record appends an observation. Input is accepted as-is; the recorder is a
// log, not a validator.
func (r *Recorder) Record(source, target, actionType string, metadata map[string]string, timestamp time.Time) {
	obs := schemas.Observation{
		Source:     source,
		Target:     target,
		ActionType: actionType,
		Metadata:   metadata,
		Timestamp:  timestamp,
	}
	if len(r.observations) == r.cap {
		copy(r.observations, r.observations[1:])
		r.observations[len(r.observations)-1] = obs
		r.evicted++
		return
	}
	r.observations = append(r.observations, obs)
}

// Recent returns a copy of the last n observations in insertion order. If n
// exceeds the retained history, everything retained is returned.
func (r *Recorder) Recent(n int) []schemas.Observation {
	if n <= 0 {
		return nil
	}
	if n > len(r.observations) {
		n = len(r.observations)
	}
	out := make([]schemas.Observation, n)
	copy(out, r.observations[len(r.observations)-n:])
	return out
}

// Len reports the number of observations currently retained.
func (r *Recorder) Len() int {
	return len(r.observations)
}

// Evicted reports how many observations have been discarded to the ring
// buffer policy over the recorder's lifetime.
func (r *Recorder) Evicted() int {
	return r.evicted
}
