// Package rpc serves the path search over gRPC. Messages are
// google.protobuf.Struct values, so no generated code is required.
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "robotmaze.v1.Pathfinder"

// Full method names.
const (
	FindPathMethod   = "/" + ServiceName + "/FindPath"
	GenerateMethod   = "/" + ServiceName + "/Generate"
	IsSolvableMethod = "/" + ServiceName + "/IsSolvable"
)

// PathfinderServer is the server API of the Pathfinder service.
type PathfinderServer interface {
	FindPath(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Generate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	IsSolvable(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterPathfinderServer registers srv on s.
func RegisterPathfinderServer(s grpc.ServiceRegistrar, srv PathfinderServer) {
	s.RegisterService(&PathfinderServiceDesc, srv)
}

// PathfinderServiceDesc describes the Pathfinder service for grpc.
var PathfinderServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PathfinderServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "FindPath", Handler: unaryHandler(FindPathMethod, PathfinderServer.FindPath)},
		{MethodName: "Generate", Handler: unaryHandler(GenerateMethod, PathfinderServer.Generate)},
		{MethodName: "IsSolvable", Handler: unaryHandler(IsSolvableMethod, PathfinderServer.IsSolvable)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "robotmaze/v1/pathfinder.proto",
}

type unaryMethod func(PathfinderServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// unaryHandler adapts a method expression to the grpc handler signature,
// running it through the interceptor when one is installed.
func unaryHandler(fullMethod string, call unaryMethod) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(PathfinderServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(PathfinderServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}
