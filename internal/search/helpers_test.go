package search

import (
	"context"
	"log/slog"

	"github.com/GoSim-25-26J-441/routesearch/internal/oracle"
	serrors "github.com/GoSim-25-26J-441/routesearch/pkg/errors"
	"github.com/GoSim-25-26J-441/routesearch/pkg/models"
)

var (
	pA = models.NewPoint("A", 0, 0)
	pB = models.NewPoint("B", 10, 5)
	pC = models.NewPoint("C", 15, 15)
	pD = models.NewPoint("D", 5, 20)
	pE = models.NewPoint("E", 20, 10)
)

func canonicalPoints() []models.Point {
	return []models.Point{pA, pB, pC, pD, pE}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// localOracle evaluates in-process, mapping oracle errors to tagged failures.
func localOracle() EvaluatorFunc {
	return func(_ context.Context, route models.Route) models.EvalResult {
		length, err := oracle.Evaluate(route)
		if err != nil {
			if serrors.Is(err, serrors.ErrCodeInvalidInput) {
				return models.Failed(models.FailureInvalidInput, "%s", serrors.UserMessage(err))
			}
			return models.Failed(models.FailureInternal, "%s", serrors.UserMessage(err))
		}
		return models.Success(length)
	}
}

// bruteForceMin computes the minimum length without the dispatcher, skipping
// any route for which skip returns true.
func bruteForceMin(points []models.Point, skip func(models.Route) bool) models.RouteLength {
	best := models.Unbounded
	for route := range NewEnumerator(points).All() {
		if skip != nil && skip(route) {
			continue
		}
		length, err := oracle.Evaluate(route)
		if err != nil {
			continue
		}
		if models.RouteLength(length).Less(best) {
			best = models.RouteLength(length)
		}
	}
	return best
}
