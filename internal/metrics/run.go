package metrics

import (
	"time"

	"github.com/GoSim-25-26J-441/routesearch/pkg/models"
)

// RunMetrics describes one full pass of one mode. It is read-only reporting
// and has no influence on the search itself.
type RunMetrics struct {
	Mode      models.Mode           `json:"mode"`
	Start     time.Time             `json:"start"`
	End       time.Time             `json:"end"`
	Elapsed   time.Duration         `json:"elapsed"`
	Evaluated int                   `json:"evaluated"`
	Failed    int                   `json:"failed"`
	Failures  map[string]int        `json:"failures,omitempty"`
	Latency   *Aggregation          `json:"latency_ms,omitempty"`
	Outcome   *models.SearchOutcome `json:"outcome"`
}

// Throughput returns evaluated routes per second
func (m *RunMetrics) Throughput() float64 {
	if m == nil || m.Elapsed <= 0 {
		return 0
	}
	return float64(m.Evaluated) / m.Elapsed.Seconds()
}

// Measure runs one full mode pass, timing it and summarising the per-task
// observations the collector received for that mode.
func Measure(mode models.Mode, collector *Collector, run func() (*models.SearchOutcome, error)) (*RunMetrics, error) {
	start := time.Now()
	outcome, err := run()
	end := time.Now()
	if err != nil {
		return nil, err
	}

	m := &RunMetrics{
		Mode:      mode,
		Start:     start,
		End:       end,
		Elapsed:   end.Sub(start),
		Evaluated: outcome.EvaluatedCount,
		Failed:    outcome.FailedCount,
		Outcome:   outcome,
	}
	if collector != nil {
		m.Latency = collector.GetAggregation(MetricTaskLatency, ModeLabels(mode))
		if m.Failed > 0 {
			m.Failures = collector.FailuresByKind(mode)
		}
	}
	return m, nil
}

// Comparison relates a sequential and a concurrent pass over the same task set
type Comparison struct {
	Sequential *RunMetrics `json:"sequential"`
	Concurrent *RunMetrics `json:"concurrent"`
}

// Speedup is sequential elapsed divided by concurrent elapsed
func (c Comparison) Speedup() float64 {
	if c.Sequential == nil || c.Concurrent == nil || c.Concurrent.Elapsed <= 0 {
		return 0
	}
	return c.Sequential.Elapsed.Seconds() / c.Concurrent.Elapsed.Seconds()
}

// Improvement is the percentage of sequential time saved by the concurrent pass
func (c Comparison) Improvement() float64 {
	if c.Sequential == nil || c.Concurrent == nil || c.Sequential.Elapsed <= 0 {
		return 0
	}
	seq := c.Sequential.Elapsed.Seconds()
	return (seq - c.Concurrent.Elapsed.Seconds()) / seq * 100
}

// Converged reports whether both passes found the same best length
func (c Comparison) Converged() bool {
	if c.Sequential == nil || c.Concurrent == nil {
		return false
	}
	return c.Sequential.Outcome.BestLength == c.Concurrent.Outcome.BestLength
}
