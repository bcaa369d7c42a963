package performance

import (
	"sync"
	"time"
)

// Tracker manages performance markers and aggregates simple metrics.
type Tracker struct {
	mu        sync.RWMutex
	started   time.Time
	active    int
	completed int
	failures  int
	slowest   map[string]time.Duration
}

// NewTracker creates a new performance tracker.
func NewTracker() *Tracker {
	return &Tracker{
		started: time.Now(),
		slowest: make(map[string]time.Duration),
	}
}

// StartOperation creates a new performance marker for an operation.
func (t *Tracker) StartOperation(operation string) *Marker {
	marker := &Marker{
		Operation: operation,
		StartTime: time.Now(),
		Success:   true, // assume success until proven otherwise
	}

	t.mu.Lock()
	t.active++
	t.mu.Unlock()

	return marker
}

// Record folds a completed marker into the aggregate counters.
func (t *Tracker) Record(marker *Marker) {
	if marker == nil || !marker.Completed {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.active > 0 {
		t.active--
	}
	t.completed++
	if !marker.Success {
		t.failures++
	}
	if marker.Duration > t.slowest[marker.Operation] {
		t.slowest[marker.Operation] = marker.Duration
	}
}

// Snapshot is a point-in-time view of tracker state for the ops surface.
type Snapshot struct {
	Uptime              time.Duration            `json:"uptime"`
	ActiveOperations    int                      `json:"activeOperations"`
	CompletedOperations int                      `json:"completedOperations"`
	FailedOperations    int                      `json:"failedOperations"`
	SlowestByOperation  map[string]time.Duration `json:"slowestByOperation"`
}

// GetSnapshot returns the current aggregate metrics.
func (t *Tracker) GetSnapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	slowest := make(map[string]time.Duration, len(t.slowest))
	for op, d := range t.slowest {
		slowest[op] = d
	}

	return Snapshot{
		Uptime:              time.Since(t.started),
		ActiveOperations:    t.active,
		CompletedOperations: t.completed,
		FailedOperations:    t.failures,
		SlowestByOperation:  slowest,
	}
}
