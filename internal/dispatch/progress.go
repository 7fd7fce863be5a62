package dispatch

import "time"

// Event describes one submission attempt for progress observers.
type Event struct {
	// Index is the 1-based attempt number within the pass.
	Index int
	// Total is the number of submissions the pass planned.
	Total int
	// Key and DisplayName identify the record being submitted.
	Key         string
	DisplayName string
	// ETA is the estimated time remaining, valid only when HasETA is true.
	// The first attempt of a pass never carries one.
	ETA    time.Duration
	HasETA bool
}

// Percent reports pass completion as 0..100.
func (e Event) Percent() float64 {
	if e.Total <= 0 {
		return 0
	}
	return float64(e.Index) / float64(e.Total) * 100
}

// ProgressFunc receives one event per submission attempt. Callbacks run on
// the dispatch goroutine, so they should return quickly.
type ProgressFunc func(Event)

// Estimator predicts time remaining by linear extrapolation from the items
// completed so far. The estimate assumes uniform per-item latency.
type Estimator struct {
	start time.Time
	total int
	done  int
	now   func() time.Time
}

// NewEstimator starts the clock for a pass planning total items.
func NewEstimator(total int) *Estimator {
	return &Estimator{start: time.Now(), total: total, now: time.Now}
}

// Observe records one completed item.
func (e *Estimator) Observe() {
	if e == nil {
		return
	}
	e.done++
}

// Remaining extrapolates the time left from the pace so far. It reports
// false until the first item completes.
func (e *Estimator) Remaining() (time.Duration, bool) {
	if e == nil || e.done < 1 {
		return 0, false
	}
	now := e.now
	if now == nil {
		now = time.Now
	}
	elapsed := now().Sub(e.start)
	if elapsed < 0 {
		elapsed = 0
	}
	remaining := time.Duration(float64(elapsed) / float64(e.done) * float64(e.total-e.done))
	if remaining < 0 {
		remaining = 0
	}
	return remaining, true
}
