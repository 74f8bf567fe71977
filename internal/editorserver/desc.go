package editorserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "roomgraph.v1.GraphEditor"

// GraphEditorServer is the handler type registered under ServiceName.
type GraphEditorServer interface {
	graphEditor()
}

type method func(*Service, context.Context, *structpb.Struct) (*structpb.Struct, error)

// methods lists every RPC; requests and responses are google.protobuf.Struct.
var methods = map[string]method{
	"Open":           (*Service).Open,
	"Close":          (*Service).Close,
	"GetGraph":       (*Service).GetGraph,
	"CreateNode":     (*Service).CreateNode,
	"CreateTemplate": (*Service).CreateTemplate,
	"ApplyTemplate":  (*Service).ApplyTemplate,
	"RemoveNode":     (*Service).RemoveNode,
	"MoveNode":       (*Service).MoveNode,
	"CanConnect":     (*Service).CanConnect,
	"Connect":        (*Service).Connect,
	"Disconnect":     (*Service).Disconnect,
	"ChangeType":     (*Service).ChangeType,
	"Save":           (*Service).Save,
	"ListTypes":      (*Service).ListTypes,
}

// ServiceDesc describes the GraphEditor service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*GraphEditorServer)(nil),
	Methods:     methodDescs(),
	Streams:     []grpc.StreamDesc{},
	Metadata:    "roomgraph/v1/editor.proto",
}

// Register registers svc on s.
func Register(s grpc.ServiceRegistrar, svc *Service) {
	s.RegisterService(&ServiceDesc, svc)
}

func methodDescs() []grpc.MethodDesc {
	descs := make([]grpc.MethodDesc, 0, len(methods))
	for name, fn := range methods {
		descs = append(descs, grpc.MethodDesc{MethodName: name, Handler: unaryHandler(name, fn)})
	}
	return descs
}

func unaryHandler(name string, fn method) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		svc := srv.(*Service)
		call := func(ctx context.Context, req any) (any, error) {
			return svc.observe(ctx, name, req.(*structpb.Struct), fn)
		}
		if interceptor == nil {
			return call(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + name}
		return interceptor(ctx, in, info, call)
	}
}
