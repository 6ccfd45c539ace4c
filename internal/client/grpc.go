package client

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/GoSim-25-26J-441/routesearch/internal/oracle/oraclev1"
	"github.com/GoSim-25-26J-441/routesearch/pkg/models"
	"github.com/GoSim-25-26J-441/routesearch/pkg/utils"
)

// GRPCClient talks to the oracle's DistanceOracle service
type GRPCClient struct {
	addr    string
	timeout time.Duration
	conn    *grpc.ClientConn
	oracle  *oraclev1.DistanceOracleClient
	health  healthpb.HealthClient
}

// DialGRPC creates a client for addr. No connection is made until the first
// call. Extra options are appended after the insecure transport credentials.
func DialGRPC(addr string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("create grpc client for %s: %w", addr, err)
	}
	return &GRPCClient{
		addr:    addr,
		timeout: timeout,
		conn:    conn,
		oracle:  oraclev1.NewDistanceOracleClient(conn),
		health:  healthpb.NewHealthClient(conn),
	}, nil
}

func (c *GRPCClient) Target() string {
	return c.addr
}

// Evaluate calls DistanceOracle/Evaluate. InvalidArgument maps to an invalid
// input failure. Unavailable, DeadlineExceeded, Canceled and ResourceExhausted
// map to transport failures. Every other status is an internal failure.
func (c *GRPCClient) Evaluate(ctx context.Context, route models.Route) models.EvalResult {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := oraclev1.NewRouteStruct(route)
	if err != nil {
		return models.Failed(models.FailureInternal, "%v", err)
	}
	ctx = metadata.AppendToOutgoingContext(ctx, oraclev1.RequestIDHeader, utils.GenerateRequestID())
	resp, err := c.oracle.Evaluate(ctx, req)
	if err != nil {
		st := status.Convert(err)
		switch st.Code() {
		case codes.InvalidArgument:
			return models.Failed(models.FailureInvalidInput, "%s", st.Message())
		case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled, codes.ResourceExhausted:
			return transportFailure(err)
		default:
			return models.Failed(models.FailureInternal, "%s: %s", st.Code(), st.Message())
		}
	}
	if resp == nil {
		return models.Failed(models.FailureInternal, "empty response")
	}
	return lengthResult(resp.GetValue())
}

// Ping runs the standard gRPC health check against the oracle service
func (c *GRPCClient) Ping(ctx context.Context) error {
	resp, err := c.health.Check(ctx, &healthpb.HealthCheckRequest{Service: oraclev1.ServiceName})
	if err != nil {
		return err
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("oracle reports status %s", resp.GetStatus())
	}
	return nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}
