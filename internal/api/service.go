package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

const ServiceName = "gophauth.v1.AuthService"

// Full method names, as seen by interceptors in grpc.UnaryServerInfo.
const (
	AuthService_CreateUser_FullMethodName           = "/" + ServiceName + "/CreateUser"
	AuthService_Login_FullMethodName                = "/" + ServiceName + "/Login"
	AuthService_RequestPasswordReset_FullMethodName = "/" + ServiceName + "/RequestPasswordReset"
	AuthService_ResetPassword_FullMethodName        = "/" + ServiceName + "/ResetPassword"
	AuthService_Refresh_FullMethodName              = "/" + ServiceName + "/Refresh"
	AuthService_Ping_FullMethodName                 = "/" + ServiceName + "/Ping"
)

// AuthServiceServer is implemented by the gRPC handler.
type AuthServiceServer interface {
	CreateUser(context.Context, *CreateUserRequest) (*AuthResponse, error)
	Login(context.Context, *LoginRequest) (*AuthResponse, error)
	RequestPasswordReset(context.Context, *RequestPasswordResetRequest) (*SuccessResponse, error)
	ResetPassword(context.Context, *ResetPasswordRequest) (*SuccessResponse, error)
	Refresh(context.Context, *emptypb.Empty) (*RefreshResponse, error)
	Ping(context.Context, *emptypb.Empty) (*PingResponse, error)
}

func RegisterAuthServiceServer(s grpc.ServiceRegistrar, srv AuthServiceServer) {
	s.RegisterService(&AuthService_ServiceDesc, srv)
}

// unary adapts a typed method to grpc.MethodHandler, running the server's
// interceptor chain when one is installed.
func unary[Req, Resp any](fullMethod string, call func(AuthServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		s := srv.(AuthServiceServer)
		if interceptor == nil {
			return call(s, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(s, ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var AuthService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AuthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateUser",
			Handler:    unary(AuthService_CreateUser_FullMethodName, AuthServiceServer.CreateUser),
		},
		{
			MethodName: "Login",
			Handler:    unary(AuthService_Login_FullMethodName, AuthServiceServer.Login),
		},
		{
			MethodName: "RequestPasswordReset",
			Handler:    unary(AuthService_RequestPasswordReset_FullMethodName, AuthServiceServer.RequestPasswordReset),
		},
		{
			MethodName: "ResetPassword",
			Handler:    unary(AuthService_ResetPassword_FullMethodName, AuthServiceServer.ResetPassword),
		},
		{
			MethodName: "Refresh",
			Handler:    unary(AuthService_Refresh_FullMethodName, AuthServiceServer.Refresh),
		},
		{
			MethodName: "Ping",
			Handler:    unary(AuthService_Ping_FullMethodName, AuthServiceServer.Ping),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gophauth/v1/auth",
}

// AuthServiceClient is the client API for AuthService.
type AuthServiceClient interface {
	CreateUser(ctx context.Context, in *CreateUserRequest, opts ...grpc.CallOption) (*AuthResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*AuthResponse, error)
	RequestPasswordReset(ctx context.Context, in *RequestPasswordResetRequest, opts ...grpc.CallOption) (*SuccessResponse, error)
	ResetPassword(ctx context.Context, in *ResetPasswordRequest, opts ...grpc.CallOption) (*SuccessResponse, error)
	Refresh(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*RefreshResponse, error)
	Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*PingResponse, error)
}

type authServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewAuthServiceClient returns a client that always speaks the JSON codec.
func NewAuthServiceClient(cc grpc.ClientConnInterface) AuthServiceClient {
	return &authServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *authServiceClient) CreateUser(ctx context.Context, in *CreateUserRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, AuthService_CreateUser_FullMethodName, in, opts)
}

func (c *authServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, AuthService_Login_FullMethodName, in, opts)
}

func (c *authServiceClient) RequestPasswordReset(ctx context.Context, in *RequestPasswordResetRequest, opts ...grpc.CallOption) (*SuccessResponse, error) {
	return invoke[SuccessResponse](ctx, c.cc, AuthService_RequestPasswordReset_FullMethodName, in, opts)
}

func (c *authServiceClient) ResetPassword(ctx context.Context, in *ResetPasswordRequest, opts ...grpc.CallOption) (*SuccessResponse, error) {
	return invoke[SuccessResponse](ctx, c.cc, AuthService_ResetPassword_FullMethodName, in, opts)
}

func (c *authServiceClient) Refresh(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*RefreshResponse, error) {
	return invoke[RefreshResponse](ctx, c.cc, AuthService_Refresh_FullMethodName, in, opts)
}

func (c *authServiceClient) Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, AuthService_Ping_FullMethodName, in, opts)
}
