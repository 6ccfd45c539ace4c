package search

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/GoSim-25-26J-441/routesearch/pkg/logger"
	"github.com/GoSim-25-26J-441/routesearch/pkg/models"
	"github.com/GoSim-25-26J-441/routesearch/pkg/utils"
)

// DefaultConcurrency is the worker pool width of concurrent mode
const DefaultConcurrency = 10

// Evaluator scores one route. Implementations report every failure through
// the result's FailureKind instead of an error return.
type Evaluator interface {
	Evaluate(ctx context.Context, route models.Route) models.EvalResult
}

// EvaluatorFunc adapts a function to Evaluator
type EvaluatorFunc func(ctx context.Context, route models.Route) models.EvalResult

func (f EvaluatorFunc) Evaluate(ctx context.Context, route models.Route) models.EvalResult {
	return f(ctx, route)
}

// Observer receives every completed task, e.g. a metrics collector
type Observer interface {
	ObserveTask(mode models.Mode, result models.EvalResult)
}

// ProgressReporter is called every progressEvery completed tasks
type ProgressReporter func(mode models.Mode, done, total int)

// Dispatcher evaluates every ordering of a point set against an Evaluator.
type Dispatcher struct {
	oracle        Evaluator
	concurrency   int
	progressEvery int
	observer      Observer
	progress      ProgressReporter
	log           *slog.Logger
}

// NewDispatcher creates a dispatcher with the default pool width
func NewDispatcher(oracle Evaluator) *Dispatcher {
	return &Dispatcher{
		oracle:      oracle,
		concurrency: DefaultConcurrency,
	}
}

// WithConcurrency sets the worker pool width, clamped to at least 1
func (d *Dispatcher) WithConcurrency(n int) *Dispatcher {
	if n < 1 {
		n = 1
	}
	d.concurrency = n
	return d
}

// WithObserver registers a per-task observer
func (d *Dispatcher) WithObserver(o Observer) *Dispatcher {
	d.observer = o
	return d
}

// WithProgressReporter reports progress every n completed tasks (0 disables)
func (d *Dispatcher) WithProgressReporter(n int, fn ProgressReporter) *Dispatcher {
	d.progressEvery = n
	d.progress = fn
	return d
}

// WithLogger overrides the package default logger
func (d *Dispatcher) WithLogger(l *slog.Logger) *Dispatcher {
	d.log = l
	return d
}

// Concurrency returns the worker pool width
func (d *Dispatcher) Concurrency() int {
	return d.concurrency
}

// Run dispatches in the given mode
func (d *Dispatcher) Run(ctx context.Context, mode models.Mode, points []models.Point) (*models.SearchOutcome, error) {
	switch mode {
	case models.ModeSequential:
		return d.RunSequential(ctx, points)
	case models.ModeConcurrent:
		return d.RunConcurrent(ctx, points)
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
}

// RunSequential evaluates one ordering at a time, in enumeration order,
// blocking on each oracle call before pulling the next ordering.
//
// The only error is ctx's, when the run is interrupted; no outcome is returned then.
func (d *Dispatcher) RunSequential(ctx context.Context, points []models.Point) (*models.SearchOutcome, error) {
	run := d.newRun(models.ModeSequential, points)

	for route := range run.enum.All() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d.complete(run, route, d.evaluate(ctx, route))
	}

	return run.finish(ctx)
}

// RunConcurrent feeds every ordering through a task queue to a fixed pool of
// workers. Workers send results to a single consumer, this goroutine, which is
// the only writer of the tracker. It returns after every submitted task has
// reported back.
//
// Interrupting ctx stops new submissions; tasks already taken by a worker
// still complete. The only error is ctx's.
func (d *Dispatcher) RunConcurrent(ctx context.Context, points []models.Point) (*models.SearchOutcome, error) {
	run := d.newRun(models.ModeConcurrent, points)

	type taskResult struct {
		route  models.Route
		result models.EvalResult
	}

	tasks := make(chan models.Route)
	results := make(chan taskResult, d.concurrency)

	go func() {
		defer close(tasks)
		for route := range run.enum.All() {
			select {
			case tasks <- route:
			case <-ctx.Done():
				return
			}
		}
	}()

	var workers errgroup.Group
	for i := 0; i < d.concurrency; i++ {
		workers.Go(func() error {
			for route := range tasks {
				results <- taskResult{route: route, result: d.evaluate(ctx, route)}
			}
			return nil
		})
	}

	go func() {
		_ = workers.Wait()
		close(results)
	}()

	for r := range results {
		d.complete(run, r.route, r.result)
	}

	return run.finish(ctx)
}

// evaluate performs one oracle call. In-flight calls are detached from run
// cancellation and end only by reply or by the evaluator's own timeout.
func (d *Dispatcher) evaluate(ctx context.Context, route models.Route) (result models.EvalResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			result = models.Failed(models.FailureInternal, "evaluator panic: %v", r)
		}
		result.Latency = time.Since(start)
	}()
	return d.oracle.Evaluate(context.WithoutCancel(ctx), route)
}

func (d *Dispatcher) complete(run *searchRun, route models.Route, result models.EvalResult) {
	improved, done := run.tracker.Record(route, result)

	if d.observer != nil {
		d.observer.ObserveTask(run.mode, result)
	}

	switch {
	case !result.OK():
		run.log.Warn("route evaluation failed",
			"route", route.String(),
			"kind", result.Failure.String(),
			"error", result.Message)
	case improved:
		run.log.Debug("new best route", "route", route.String(), "length", result.Length.String())
	}

	if d.progressEvery > 0 && done%d.progressEvery == 0 {
		run.log.Debug("progress", "done", done, "total", run.total)
		if d.progress != nil {
			d.progress(run.mode, done, run.total)
		}
	}
}

type searchRun struct {
	id      string
	mode    models.Mode
	enum    *Enumerator
	tracker *Tracker
	total   int
	start   time.Time
	log     *slog.Logger
}

func (d *Dispatcher) newRun(mode models.Mode, points []models.Point) *searchRun {
	base := d.log
	if base == nil {
		base = logger.Default
	}

	enum := NewEnumerator(points)
	run := &searchRun{
		id:      utils.GenerateRunID(),
		mode:    mode,
		enum:    enum,
		tracker: NewTracker(),
		total:   enum.Len(),
		start:   time.Now(),
	}
	run.log = base.With("run_id", run.id, "mode", string(mode))
	run.log.Info("search started", "points", len(points), "routes", run.total, "concurrency", d.workers(mode))
	return run
}

func (d *Dispatcher) workers(mode models.Mode) int {
	if mode == models.ModeSequential {
		return 1
	}
	return d.concurrency
}

func (r *searchRun) finish(ctx context.Context) (*models.SearchOutcome, error) {
	if err := ctx.Err(); err != nil {
		r.log.Warn("search interrupted", "done", r.tracker.Evaluated(), "total", r.total)
		return nil, err
	}

	outcome := r.tracker.Outcome(r.id, r.mode, time.Since(r.start))
	r.log.Info("search completed",
		"evaluated", outcome.EvaluatedCount,
		"failed", outcome.FailedCount,
		"best_length", outcome.BestLength.String(),
		"elapsed", outcome.Elapsed)
	return outcome, nil
}
