// Package oracle scores a single ordering of points: the length of the open path
// visiting them in the given order. The first and last points are not joined.
//
// Evaluate is pure. It holds no state, so any number of goroutines may call it.
package oracle

import (
	"math"

	"github.com/GoSim-25-26J-441/routesearch/pkg/errors"
	"github.com/GoSim-25-26J-441/routesearch/pkg/models"
	"github.com/GoSim-25-26J-441/routesearch/pkg/utils"
)

// MinPoints is the smallest route the oracle accepts
const MinPoints = 2

// Evaluate returns the sum of Euclidean distances between consecutive points,
// rounded to four decimals.
//
// Routes shorter than MinPoints fail with ErrCodeInvalidInput. A non-finite
// result (overflowing or NaN coordinates) fails with ErrCodeInternal rather
// than returning a wrong value.
func Evaluate(route models.Route) (float64, error) {
	if len(route) < MinPoints {
		return 0, errors.New(errors.ErrCodeInvalidInput, "at least %d cities are required, got %d", MinPoints, len(route))
	}

	total := 0.0
	for i := 0; i < len(route)-1; i++ {
		total += route[i].Distance(route[i+1])
	}

	length := utils.Round4(total)
	if math.IsNaN(length) || math.IsInf(length, 0) {
		return 0, errors.New(errors.ErrCodeInternal, "route length is not finite (%v)", total)
	}
	return length, nil
}
