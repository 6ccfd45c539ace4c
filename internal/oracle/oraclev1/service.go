package oraclev1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	ServiceName          = "routesearch.oracle.v1.DistanceOracle"
	EvaluateFullMethod   = "/" + ServiceName + "/Evaluate"
	evaluateMethodName   = "Evaluate"
	serviceDescriptorRef = "routesearch/oracle/v1/oracle.proto"
)

// DistanceOracleServer is the server API for the DistanceOracle service.
// The request carries a route built by NewRouteStruct.
type DistanceOracleServer interface {
	Evaluate(context.Context, *structpb.Struct) (*wrapperspb.DoubleValue, error)
}

// RegisterDistanceOracleServer registers srv on s
func RegisterDistanceOracleServer(s grpc.ServiceRegistrar, srv DistanceOracleServer) {
	s.RegisterService(&DistanceOracleServiceDesc, srv)
}

// DistanceOracleServiceDesc describes the service using well-known message
// types only, so no generated code is needed on either side.
var DistanceOracleServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DistanceOracleServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: evaluateMethodName,
			Handler:    evaluateHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: serviceDescriptorRef,
}

func evaluateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DistanceOracleServer).Evaluate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: EvaluateFullMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DistanceOracleServer).Evaluate(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// DistanceOracleClient is the client API for the DistanceOracle service
type DistanceOracleClient struct {
	cc grpc.ClientConnInterface
}

// NewDistanceOracleClient wraps a connection
func NewDistanceOracleClient(cc grpc.ClientConnInterface) *DistanceOracleClient {
	return &DistanceOracleClient{cc: cc}
}

// Evaluate performs the unary Evaluate call
func (c *DistanceOracleClient) Evaluate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.DoubleValue, error) {
	out := new(wrapperspb.DoubleValue)
	if err := c.cc.Invoke(ctx, EvaluateFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
