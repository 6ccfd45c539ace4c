// Package oracled serves the distance oracle over HTTP and gRPC.
//
// Both transports call the same evaluate helper, which scores the route and
// records the request in the Prometheus instruments of internal/metrics.
package oracled

import (
	"strings"
	"time"

	"github.com/GoSim-25-26J-441/routesearch/internal/metrics"
	"github.com/GoSim-25-26J-441/routesearch/internal/oracle"
	"github.com/GoSim-25-26J-441/routesearch/pkg/errors"
	"github.com/GoSim-25-26J-441/routesearch/pkg/logger"
	"github.com/GoSim-25-26J-441/routesearch/pkg/models"
)

// Transport labels used in logs and metrics
const (
	TransportHTTP = "http"
	TransportGRPC = "grpc"
)

const outcomeOK = "ok"

func evaluate(transport, requestID string, route models.Route) (float64, error) {
	start := time.Now()
	length, err := oracle.Evaluate(route)
	elapsed := time.Since(start)

	outcome := outcomeOK
	if err != nil {
		outcome = strings.ToLower(string(errors.GetCode(err)))
		if outcome == "" {
			outcome = strings.ToLower(string(errors.ErrCodeInternal))
		}
	}
	metrics.RecordOracleRequest(transport, outcome, len(route), elapsed)

	if err != nil {
		logger.Debug("route rejected", "transport", transport, "request_id", requestID, "points", len(route), "error", err)
	} else {
		logger.Debug("route evaluated", "transport", transport, "request_id", requestID, "points", len(route), "length", length)
	}
	return length, err
}
