package metrics

import (
	"sort"
	"sync"
	"time"

	"github.com/GoSim-25-26J-441/routesearch/pkg/models"
	"github.com/GoSim-25-26J-441/routesearch/pkg/utils"
)

// Common metric names
const (
	MetricTaskLatency = "task_latency_ms"
	MetricTaskCount   = "task_count"
	MetricTaskFailure = "task_failure_count"
)

// Point is a single recorded value
type Point struct {
	Timestamp time.Time
	Value     float64
	Labels    map[string]string
}

// Aggregation holds summary statistics over a series
type Aggregation struct {
	Count int64   `json:"count"`
	Sum   float64 `json:"sum"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
	P99   float64 `json:"p99"`
}

// Collector collects per-task observations during a search. It is safe for
// concurrent use by dispatcher workers.
type Collector struct {
	mu sync.RWMutex

	// metric name -> label key -> points
	series map[string]map[string][]Point
}

// NewCollector creates a new metrics collector
func NewCollector() *Collector {
	return &Collector{
		series: make(map[string]map[string][]Point),
	}
}

// Record records a metric value at a specific timestamp
func (c *Collector) Record(name string, value float64, timestamp time.Time, labels map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := labelKey(labels)
	if c.series[name] == nil {
		c.series[name] = make(map[string][]Point)
	}
	c.series[name][key] = append(c.series[name][key], Point{
		Timestamp: timestamp,
		Value:     value,
		Labels:    copyLabels(labels),
	})
}

// ObserveTask records one completed oracle call for the given mode
func (c *Collector) ObserveTask(mode models.Mode, result models.EvalResult) {
	now := time.Now()
	labels := ModeLabels(mode)
	c.Record(MetricTaskLatency, float64(result.Latency)/float64(time.Millisecond), now, labels)
	c.Record(MetricTaskCount, 1, now, labels)
	if !result.OK() {
		failure := copyLabels(labels)
		failure["kind"] = result.Failure.String()
		c.Record(MetricTaskFailure, 1, now, failure)
	}
}

// GetAggregation calculates aggregated statistics for a metric and label set
func (c *Collector) GetAggregation(name string, labels map[string]string) *Aggregation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return calculateAggregation(c.series[name][labelKey(labels)])
}

// Sum adds every value of a metric across all label sets whose labels include match.
func (c *Collector) Sum(name string, match map[string]string) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := 0.0
	for _, points := range c.series[name] {
		if len(points) == 0 || !labelsMatch(points[0].Labels, match) {
			continue
		}
		for _, p := range points {
			total += p.Value
		}
	}
	return total
}

// FailuresByKind counts the failed tasks of a mode per failure kind. Kinds
// with no failures are omitted.
func (c *Collector) FailuresByKind(mode models.Mode) map[string]int {
	out := make(map[string]int)
	for _, kind := range []models.FailureKind{models.FailureInvalidInput, models.FailureTransport, models.FailureInternal} {
		match := ModeLabels(mode)
		match["kind"] = kind.String()
		if n := int(c.Sum(MetricTaskFailure, match)); n > 0 {
			out[kind.String()] = n
		}
	}
	return out
}

// ModeLabels creates a labels map for a dispatcher mode
func ModeLabels(mode models.Mode) map[string]string {
	return map[string]string{"mode": string(mode)}
}

func labelsMatch(labels, match map[string]string) bool {
	for k, v := range match {
		if labels[k] != v {
			return false
		}
	}
	return true
}

// labelKey creates a key from labels for map lookup
func labelKey(labels map[string]string) string {
	if len(labels) == 0 {
		return ""
	}

	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	key := ""
	for _, k := range keys {
		key += k + "=" + labels[k] + ","
	}
	return key
}

func copyLabels(labels map[string]string) map[string]string {
	if labels == nil {
		return nil
	}
	out := make(map[string]string, len(labels))
	for k, v := range labels {
		out[k] = v
	}
	return out
}

// calculateAggregation calculates aggregated statistics from metric points
func calculateAggregation(points []Point) *Aggregation {
	if len(points) == 0 {
		return nil
	}

	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}
	sort.Float64s(values)

	sum := 0.0
	for _, v := range values {
		sum += v
	}

	return &Aggregation{
		Count: int64(len(values)),
		Sum:   sum,
		Min:   values[0],
		Max:   values[len(values)-1],
		Mean:  sum / float64(len(values)),
		P50:   utils.Percentile(values, 50),
		P95:   utils.Percentile(values, 95),
		P99:   utils.Percentile(values, 99),
	}
}
