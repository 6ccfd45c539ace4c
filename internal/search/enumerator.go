package search

import (
	"iter"

	"github.com/GoSim-25-26J-441/routesearch/pkg/models"
	"github.com/GoSim-25-26J-441/routesearch/pkg/utils"
)

// Enumerator produces every ordering of a fixed point set.
type Enumerator struct {
	points []models.Point
}

// NewEnumerator copies points; later changes to the caller's slice do not affect it.
func NewEnumerator(points []models.Point) *Enumerator {
	return &Enumerator{points: models.Route(points).Clone()}
}

// Len returns n!, the number of orderings All yields.
func (e *Enumerator) Len() int {
	return utils.Factorial(len(e.points))
}

// Points returns a copy of the base point set
func (e *Enumerator) Points() []models.Point {
	return models.Route(e.points).Clone()
}

// All returns a lazy sequence of all n! orderings using Heap's algorithm.
// Every call starts a fresh enumeration, and every yielded route is a separate
// allocation the consumer may keep.
func (e *Enumerator) All() iter.Seq[models.Route] {
	return func(yield func(models.Route) bool) {
		n := len(e.points)
		perm := make(models.Route, n)
		copy(perm, e.points)

		if !yield(perm.Clone()) {
			return
		}

		state := make([]int, n)
		for i := 0; i < n; {
			if state[i] < i {
				if i&1 == 0 {
					perm[0], perm[i] = perm[i], perm[0]
				} else {
					perm[state[i]], perm[i] = perm[i], perm[state[i]]
				}
				if !yield(perm.Clone()) {
					return
				}
				state[i]++
				i = 0
			} else {
				state[i] = 0
				i++
			}
		}
	}
}
