// Package metrics defines the observability collaborator consumed by
// BufferedContainer and the block-file/raw-device containers: optional,
// swappable, and never required for correctness.
package metrics

import "time"

// Recorder receives observability events from container operations. A nil
// Recorder is never passed around; use Nop() for "no observability".
type Recorder interface {
	// ObserveReserve records a Reserve call's duration.
	ObserveReserve(owner string, d time.Duration)
	// ObserveGet records a Get call's duration and whether it hit an
	// enclosing buffer (hit=true) or fell through to the wrapped
	// container (hit=false). Non-buffered containers always pass true.
	ObserveGet(owner string, d time.Duration, hit bool)
	// ObserveUpdate records an Update call's duration.
	ObserveUpdate(owner string, d time.Duration)
	// ObserveRemove records a Remove call's duration.
	ObserveRemove(owner string, d time.Duration)
	// ObserveFlush records a buffer flush of n bytes.
	ObserveFlush(owner string, n int, d time.Duration)
	// RecordSize records the current Size() of a container.
	RecordSize(owner string, n int)
}

type nopRecorder struct{}

func (nopRecorder) ObserveReserve(string, time.Duration)       {}
func (nopRecorder) ObserveGet(string, time.Duration, bool)     {}
func (nopRecorder) ObserveUpdate(string, time.Duration)        {}
func (nopRecorder) ObserveRemove(string, time.Duration)        {}
func (nopRecorder) ObserveFlush(string, int, time.Duration)    {}
func (nopRecorder) RecordSize(string, int)                     {}

// Nop returns a Recorder that discards every observation.
func Nop() Recorder { return nopRecorder{} }
