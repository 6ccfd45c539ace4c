package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// Point is a labelled coordinate pair. Points are passed by value and never mutated.
type Point struct {
	Name string  `json:"name" yaml:"name" toml:"name"`
	X    float64 `json:"x" yaml:"x" toml:"x"`
	Y    float64 `json:"y" yaml:"y" toml:"y"`
}

// NewPoint creates a point
func NewPoint(name string, x, y float64) Point {
	return Point{Name: name, X: x, Y: y}
}

// Distance returns the Euclidean distance between p and q
func (p Point) Distance(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

func (p Point) String() string {
	return fmt.Sprintf("%s(%g,%g)", p.Name, p.X, p.Y)
}

// Route is one ordering of a point set
type Route []Point

// Clone returns an independent copy of the route
func (r Route) Clone() Route {
	if r == nil {
		return nil
	}
	out := make(Route, len(r))
	copy(out, r)
	return out
}

// Labels returns the point names in route order
func (r Route) Labels() []string {
	labels := make([]string, len(r))
	for i, p := range r {
		labels[i] = p.Name
	}
	return labels
}

// String renders the route as "A -> B -> C"
func (r Route) String() string {
	return strings.Join(r.Labels(), " -> ")
}

// RouteLength is a path length, or Unbounded for a failed evaluation
type RouteLength float64

// Unbounded is the sentinel length of a failed evaluation. It never compares
// strictly less than any other length, so it can never become an optimum.
var Unbounded = RouteLength(math.Inf(1))

// IsUnbounded reports whether l is the failure sentinel
func (l RouteLength) IsUnbounded() bool {
	return math.IsInf(float64(l), 1)
}

// Less reports whether l is strictly shorter than other. NaN is never less.
func (l RouteLength) Less(other RouteLength) bool {
	return float64(l) < float64(other)
}

func (l RouteLength) String() string {
	if l.IsUnbounded() {
		return "unbounded"
	}
	return fmt.Sprintf("%.4f", float64(l))
}

// MarshalJSON encodes Unbounded as null since JSON has no infinity
func (l RouteLength) MarshalJSON() ([]byte, error) {
	if l.IsUnbounded() || math.IsNaN(float64(l)) {
		return []byte("null"), nil
	}
	return json.Marshal(float64(l))
}

// FailureKind names why an evaluation produced no length
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureInvalidInput
	FailureTransport
	FailureInternal
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureInvalidInput:
		return "invalid_input"
	case FailureTransport:
		return "transport_failure"
	case FailureInternal:
		return "internal_error"
	default:
		return fmt.Sprintf("failure(%d)", int(k))
	}
}

// EvalResult is the tagged outcome of one oracle call: either a length
// (Failure == FailureNone) or a named failure kind with a diagnostic message.
type EvalResult struct {
	Length  RouteLength
	Failure FailureKind
	Message string
	Latency time.Duration
}

// Success builds a successful result
func Success(length float64) EvalResult {
	return EvalResult{Length: RouteLength(length)}
}

// Failed builds a failed result carrying the sentinel length
func Failed(kind FailureKind, format string, args ...any) EvalResult {
	return EvalResult{
		Length:  Unbounded,
		Failure: kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// OK reports whether the evaluation succeeded
func (r EvalResult) OK() bool {
	return r.Failure == FailureNone
}

// Mode is a dispatcher scheduling strategy
type Mode string

const (
	ModeSequential Mode = "sequential"
	ModeConcurrent Mode = "concurrent"
)

// ParseMode parses a mode name
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sequential", "seq":
		return ModeSequential, nil
	case "concurrent", "parallel", "par":
		return ModeConcurrent, nil
	default:
		return "", fmt.Errorf("unknown mode %q (must be sequential or concurrent)", s)
	}
}

// SearchOutcome is the immutable result of one full pass in one mode
type SearchOutcome struct {
	RunID          string        `json:"run_id"`
	Mode           Mode          `json:"mode"`
	BestRoute      Route         `json:"best_route,omitempty"`
	BestLength     RouteLength   `json:"best_length"`
	EvaluatedCount int           `json:"evaluated_count"`
	FailedCount    int           `json:"failed_count"`
	Elapsed        time.Duration `json:"elapsed"`
}

// HasRoute reports whether any evaluation succeeded
func (o *SearchOutcome) HasRoute() bool {
	return o != nil && o.BestRoute != nil
}
