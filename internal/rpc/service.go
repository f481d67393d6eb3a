// Package rpc defines the gRPC contract between the caregiver client and the
// backend. Messages are protobuf well-known types (Struct, Empty) mapped to
// the typed DTOs in messages.go, so no generated stubs are required.
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "caregiver.backend.v1.Backend"

const (
	MethodSignIn        = "SignIn"
	MethodCreateAccount = "CreateAccount"
	MethodRefreshToken  = "RefreshToken"
	MethodSignOut       = "SignOut"
	MethodSetDocument   = "SetDocument"
	MethodGetDocument   = "GetDocument"
	MethodPing          = "Ping"
)

// FullMethod returns the "/service/method" path gRPC uses for method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// Server is implemented by the backend.
type Server interface {
	SignIn(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	CreateAccount(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	RefreshToken(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	SignOut(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error)
	SetDocument(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error)
	GetDocument(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Ping(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
}

func newStruct() *structpb.Struct { return &structpb.Struct{} }
func newEmpty() *emptypb.Empty    { return &emptypb.Empty{} }

// ServiceDesc describes the Backend service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*Server)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodSignIn, Handler: unary(MethodSignIn, newStruct, func(s Server, ctx context.Context, in *structpb.Struct) (proto.Message, error) {
			return s.SignIn(ctx, in)
		})},
		{MethodName: MethodCreateAccount, Handler: unary(MethodCreateAccount, newStruct, func(s Server, ctx context.Context, in *structpb.Struct) (proto.Message, error) {
			return s.CreateAccount(ctx, in)
		})},
		{MethodName: MethodRefreshToken, Handler: unary(MethodRefreshToken, newStruct, func(s Server, ctx context.Context, in *structpb.Struct) (proto.Message, error) {
			return s.RefreshToken(ctx, in)
		})},
		{MethodName: MethodSignOut, Handler: unary(MethodSignOut, newStruct, func(s Server, ctx context.Context, in *structpb.Struct) (proto.Message, error) {
			return s.SignOut(ctx, in)
		})},
		{MethodName: MethodSetDocument, Handler: unary(MethodSetDocument, newStruct, func(s Server, ctx context.Context, in *structpb.Struct) (proto.Message, error) {
			return s.SetDocument(ctx, in)
		})},
		{MethodName: MethodGetDocument, Handler: unary(MethodGetDocument, newStruct, func(s Server, ctx context.Context, in *structpb.Struct) (proto.Message, error) {
			return s.GetDocument(ctx, in)
		})},
		{MethodName: MethodPing, Handler: unary(MethodPing, newEmpty, func(s Server, ctx context.Context, in *emptypb.Empty) (proto.Message, error) {
			return s.Ping(ctx, in)
		})},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "internal/rpc/service.go",
}

// RegisterServer attaches srv to a gRPC server.
func RegisterServer(r grpc.ServiceRegistrar, srv Server) {
	r.RegisterService(&ServiceDesc, srv)
}

// unary builds the method handler gRPC invokes for one unary method: decode
// the request, then run it through the interceptor chain if there is one.
func unary[Req proto.Message](method string, newReq func() Req, call func(Server, context.Context, Req) (proto.Message, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := newReq()
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(Server), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(Server), ctx, req.(Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Client is the caller side of the Backend service.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invokeStruct(ctx context.Context, method string, in proto.Message, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := &structpb.Struct{}
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) invokeEmpty(ctx context.Context, method string, in proto.Message, opts ...grpc.CallOption) error {
	return c.cc.Invoke(ctx, FullMethod(method), in, &emptypb.Empty{}, opts...)
}

func (c *Client) SignIn(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invokeStruct(ctx, MethodSignIn, in, opts...)
}

func (c *Client) CreateAccount(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invokeStruct(ctx, MethodCreateAccount, in, opts...)
}

func (c *Client) RefreshToken(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invokeStruct(ctx, MethodRefreshToken, in, opts...)
}

func (c *Client) SignOut(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) error {
	return c.invokeEmpty(ctx, MethodSignOut, in, opts...)
}

func (c *Client) SetDocument(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) error {
	return c.invokeEmpty(ctx, MethodSetDocument, in, opts...)
}

func (c *Client) GetDocument(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invokeStruct(ctx, MethodGetDocument, in, opts...)
}

func (c *Client) Ping(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invokeStruct(ctx, MethodPing, &emptypb.Empty{}, opts...)
}
