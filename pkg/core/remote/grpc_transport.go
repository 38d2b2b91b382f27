// ============================================================================
// taxon - Taxonomy Service Client
// ============================================================================
//
// Package:     remote
// Description: gRPC transport: client invoker and server registration
// Created:     2025-12-14
// License:     MIT
// ============================================================================

package remote

import (
	"context"

	coregrpc "github.com/msto63/taxon/pkg/core/grpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type grpcInvoker struct {
	conn     *grpc.ClientConn
	callOpts []grpc.CallOption
}

func newGRPCInvoker(conn *grpc.ClientConn, protocol ProtocolKind) *grpcInvoker {
	inv := &grpcInvoker{conn: conn}
	if protocol == ProtocolJSON {
		inv.callOpts = append(inv.callOpts, coregrpc.CallJSON())
	}
	return inv
}

func (g *grpcInvoker) invoke(ctx context.Context, op Operation, req *structpb.Struct) (*structpb.Value, error) {
	resp := new(structpb.Value)
	if err := g.conn.Invoke(ctx, MethodName(op), req, resp, g.callOpts...); err != nil {
		return nil, fromGRPC(op, err)
	}
	return resp, nil
}

func (g *grpcInvoker) close() error {
	return g.conn.Close()
}

// Handler serves decoded operation requests. Returned errors should be
// *mdwerror.Error values; their code selects the gRPC status or HTTP status.
type Handler interface {
	Handle(ctx context.Context, op Operation, req Request) (*structpb.Value, error)
}

// HandlerFunc adapts a function to the Handler interface
type HandlerFunc func(ctx context.Context, op Operation, req Request) (*structpb.Value, error)

// Handle implements Handler
func (f HandlerFunc) Handle(ctx context.Context, op Operation, req Request) (*structpb.Value, error) {
	return f(ctx, op, req)
}

// NewServiceDesc describes the taxonomy service for registration on a
// grpc.Server. Each operation becomes one unary method.
func NewServiceDesc() *grpc.ServiceDesc {
	desc := &grpc.ServiceDesc{
		ServiceName: ServiceName,
		HandlerType: (*Handler)(nil),
		Metadata:    "taxon/v1/taxon.proto",
	}
	for _, op := range Operations {
		desc.Methods = append(desc.Methods, grpc.MethodDesc{
			MethodName: string(op),
			Handler:    methodHandler(op),
		})
	}
	return desc
}

// RegisterService registers h on s under the taxonomy service name
func RegisterService(s grpc.ServiceRegistrar, h Handler) {
	s.RegisterService(NewServiceDesc(), h)
}

func methodHandler(op Operation) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}

		handler := func(ctx context.Context, msg interface{}) (interface{}, error) {
			req, err := ParseRequest(msg.(*structpb.Struct))
			if err != nil {
				return nil, status.Error(codes.InvalidArgument, err.Error())
			}
			value, err := srv.(Handler).Handle(ctx, op, req)
			if err != nil {
				return nil, ToStatus(err)
			}
			if value == nil {
				value = structpb.NewNullValue()
			}
			return value, nil
		}

		if interceptor == nil {
			return handler(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodName(op)}
		return interceptor(ctx, in, info, handler)
	}
}
