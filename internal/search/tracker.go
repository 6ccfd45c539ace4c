package search

import (
	"sync"
	"time"

	"github.com/GoSim-25-26J-441/routesearch/pkg/models"
)

// Tracker holds the best (route, length) pair seen so far together with the
// evaluated and failed counters. All fields change under one mutex.
type Tracker struct {
	mu         sync.Mutex
	bestRoute  models.Route
	bestLength models.RouteLength
	evaluated  int
	failed     int
}

// NewTracker starts with no route and an Unbounded best length
func NewTracker() *Tracker {
	return &Tracker{bestLength: models.Unbounded}
}

// Update counts one completed task and replaces the optimum when length is
// strictly less than the current best. It reports whether a replacement happened.
func (t *Tracker) Update(route models.Route, length models.RouteLength) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.updateLocked(route, length)
}

// Record is Update for a tagged result. A failed result is counted as both
// evaluated and failed and is scored as Unbounded regardless of its Length.
func (t *Tracker) Record(route models.Route, result models.EvalResult) (improved bool, evaluated int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	length := result.Length
	if !result.OK() {
		t.failed++
		length = models.Unbounded
	}
	improved = t.updateLocked(route, length)
	return improved, t.evaluated
}

func (t *Tracker) updateLocked(route models.Route, length models.RouteLength) bool {
	t.evaluated++
	if !length.Less(t.bestLength) {
		return false
	}
	t.bestRoute = route.Clone()
	t.bestLength = length
	return true
}

// Best returns a copy of the current optimum. The route is nil until a
// finite length has been recorded.
func (t *Tracker) Best() (models.Route, models.RouteLength) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bestRoute.Clone(), t.bestLength
}

// Evaluated returns the number of completed tasks
func (t *Tracker) Evaluated() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.evaluated
}

// Outcome freezes the tracker state into a SearchOutcome
func (t *Tracker) Outcome(runID string, mode models.Mode, elapsed time.Duration) *models.SearchOutcome {
	t.mu.Lock()
	defer t.mu.Unlock()
	return &models.SearchOutcome{
		RunID:          runID,
		Mode:           mode,
		BestRoute:      t.bestRoute.Clone(),
		BestLength:     t.bestLength,
		EvaluatedCount: t.evaluated,
		FailedCount:    t.failed,
		Elapsed:        elapsed,
	}
}
