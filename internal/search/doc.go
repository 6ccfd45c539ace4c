// Package search runs an exhaustive route search against a distance oracle.
//
// An Enumerator yields every ordering of a fixed point set. A Dispatcher feeds
// those orderings to an Evaluator either one at a time (sequential mode) or
// through a fixed-size worker pool (concurrent mode), and a Tracker keeps the
// shortest route seen. Failed evaluations count as evaluated but carry the
// Unbounded length, so they can never become the optimum and never abort a run.
package search
