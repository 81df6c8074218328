package authrpc

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName — полное имя gRPC-сервиса.
const ServiceName = "stadium.auth.v1.AuthService"

const (
	authenticateMethod       = "/" + ServiceName + "/Authenticate"
	registerMethod           = "/" + ServiceName + "/Register"
	validateTokenMethod      = "/" + ServiceName + "/ValidateToken"
	evaluateMembershipMethod = "/" + ServiceName + "/EvaluateMembership"
)

// AuthServiceServer — серверная сторона сервиса авторизации.
type AuthServiceServer interface {
	Authenticate(context.Context, *AuthenticateRequest) (*AuthenticateResponse, error)
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	ValidateToken(context.Context, *ValidateTokenRequest) (*ValidateTokenResponse, error)
	EvaluateMembership(context.Context, *EvaluateMembershipRequest) (*EvaluateMembershipResponse, error)
}

// RegisterAuthServiceServer регистрирует реализацию сервиса на gRPC-сервере.
func RegisterAuthServiceServer(s grpc.ServiceRegistrar, srv AuthServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// ServiceDesc описывает методы сервиса для grpc.Server.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AuthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Authenticate",
			Handler:    unaryHandler(authenticateMethod, AuthServiceServer.Authenticate),
		},
		{
			MethodName: "Register",
			Handler:    unaryHandler(registerMethod, AuthServiceServer.Register),
		},
		{
			MethodName: "ValidateToken",
			Handler:    unaryHandler(validateTokenMethod, AuthServiceServer.ValidateToken),
		},
		{
			MethodName: "EvaluateMembership",
			Handler:    unaryHandler(evaluateMembershipMethod, AuthServiceServer.EvaluateMembership),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "stadium/auth/v1",
}

func unaryHandler[Req, Resp any](
	fullMethod string,
	call func(AuthServiceServer, context.Context, *Req) (*Resp, error),
) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AuthServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AuthServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// AuthServiceClient — клиентская сторона сервиса авторизации.
type AuthServiceClient interface {
	Authenticate(ctx context.Context, in *AuthenticateRequest, opts ...grpc.CallOption) (*AuthenticateResponse, error)
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error)
	ValidateToken(ctx context.Context, in *ValidateTokenRequest, opts ...grpc.CallOption) (*ValidateTokenResponse, error)
	EvaluateMembership(ctx context.Context, in *EvaluateMembershipRequest, opts ...grpc.CallOption) (*EvaluateMembershipResponse, error)
}

type authServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewAuthServiceClient создает клиентскую заглушку поверх соединения.
// Все вызовы идут через JSON-кодек.
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

func (c *authServiceClient) Authenticate(ctx context.Context, in *AuthenticateRequest, opts ...grpc.CallOption) (*AuthenticateResponse, error) {
	return invoke[AuthenticateResponse](ctx, c.cc, authenticateMethod, in, opts)
}

func (c *authServiceClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterResponse](ctx, c.cc, registerMethod, in, opts)
}

func (c *authServiceClient) ValidateToken(ctx context.Context, in *ValidateTokenRequest, opts ...grpc.CallOption) (*ValidateTokenResponse, error) {
	return invoke[ValidateTokenResponse](ctx, c.cc, validateTokenMethod, in, opts)
}

func (c *authServiceClient) EvaluateMembership(ctx context.Context, in *EvaluateMembershipRequest, opts ...grpc.CallOption) (*EvaluateMembershipResponse, error) {
	return invoke[EvaluateMembershipResponse](ctx, c.cc, evaluateMembershipMethod, in, opts)
}
