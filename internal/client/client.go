// Package client reaches a remote distance oracle. Every client converts
// transport and oracle failures into a tagged models.EvalResult, so callers
// never see an error from Evaluate.
package client

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/GoSim-25-26J-441/routesearch/pkg/config"
	"github.com/GoSim-25-26J-441/routesearch/pkg/errors"
	"github.com/GoSim-25-26J-441/routesearch/pkg/logger"
	"github.com/GoSim-25-26J-441/routesearch/pkg/models"
	"github.com/GoSim-25-26J-441/routesearch/pkg/utils"
)

// Oracle is a remote DistanceOracle
type Oracle interface {
	// Evaluate scores one route within the client's per-call timeout
	Evaluate(ctx context.Context, route models.Route) models.EvalResult
	// Ping is the liveness probe
	Ping(ctx context.Context) error
	// Target names the endpoint for messages
	Target() string
	Close() error
}

// New builds the client selected by cfg.Transport
func New(cfg config.Oracle) (Oracle, error) {
	timeout, err := cfg.GetTimeout()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid oracle timeout")
	}

	switch cfg.Transport {
	case config.TransportHTTP, "":
		return NewHTTPClient(cfg.URL, timeout), nil
	case config.TransportGRPC:
		return DialGRPC(cfg.GRPCAddr, timeout)
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown oracle transport %q", cfg.Transport)
	}
}

// WaitReady probes the oracle up to 1+retries times, each probe bounded by
// timeout, sleeping per backoff between attempts. It fails with
// ErrCodeOracleUnavailable when no probe succeeds.
func WaitReady(ctx context.Context, o Oracle, timeout time.Duration, retries int, backoff utils.BackoffStrategy) error {
	attempts := max(retries, 0) + 1
	var lastErr error

	for attempt := range attempts {
		probeCtx, cancel := context.WithTimeout(ctx, timeout)
		lastErr = o.Ping(probeCtx)
		cancel()
		if lastErr == nil {
			logger.Debug("oracle is alive", "target", o.Target(), "attempt", attempt+1)
			return nil
		}
		logger.Warn("oracle liveness probe failed", "target", o.Target(), "attempt", attempt+1, "error", lastErr)

		if attempt < attempts-1 && backoff != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff.NextDelay(attempt)):
			}
		}
	}

	return errors.Wrap(errors.ErrCodeOracleUnavailable, lastErr,
		"oracle at %s is not reachable; start it before running the search", o.Target())
}

func transportFailure(err error) models.EvalResult {
	return models.Failed(models.FailureTransport, "%v", err)
}

func describe(status int, message string) string {
	if message == "" {
		return fmt.Sprintf("oracle returned status %d", status)
	}
	return fmt.Sprintf("oracle returned status %d: %s", status, message)
}

// lengthResult accepts a reply only if it is a usable route length. A bad
// value would otherwise compete for the optimum.
func lengthResult(length float64) models.EvalResult {
	if math.IsNaN(length) || math.IsInf(length, 0) || length < 0 {
		return models.Failed(models.FailureInternal, "oracle returned invalid length %v", length)
	}
	return models.Success(length)
}
