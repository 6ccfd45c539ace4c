package oracled

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/GoSim-25-26J-441/routesearch/internal/oracle/oraclev1"
	"github.com/GoSim-25-26J-441/routesearch/pkg/errors"
)

// OracleGRPCServer implements oraclev1.DistanceOracleServer
type OracleGRPCServer struct{}

func NewOracleGRPCServer() *OracleGRPCServer {
	return &OracleGRPCServer{}
}

func (s *OracleGRPCServer) Evaluate(ctx context.Context, req *structpb.Struct) (*wrapperspb.DoubleValue, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "cities are required")
	}
	route, err := oraclev1.RouteFromStruct(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	length, err := evaluate(TransportGRPC, requestID(ctx), route)
	if err != nil {
		return nil, status.Error(grpcCode(err), errors.UserMessage(err))
	}
	return wrapperspb.Double(length), nil
}

// requestID reads the x-request-id metadata sent by clients, if any
func requestID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get(oraclev1.RequestIDHeader); len(ids) > 0 {
			return ids[0]
		}
	}
	return ""
}

func grpcCode(err error) codes.Code {
	if errors.Is(err, errors.ErrCodeInvalidInput) {
		return codes.InvalidArgument
	}
	return codes.Internal
}

// RegisterServices registers the oracle and the standard health service on
// s. The returned health server reports SERVING for both the empty service
// name and the oracle service until its status is changed, e.g. on shutdown.
func RegisterServices(s grpc.ServiceRegistrar) *health.Server {
	oraclev1.RegisterDistanceOracleServer(s, NewOracleGRPCServer())

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(oraclev1.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, healthServer)
	return healthServer
}
