package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "accountkeeper.v1.AccountService"

const (
	AccountService_Register_FullMethodName         = "/" + ServiceName + "/Register"
	AccountService_Login_FullMethodName            = "/" + ServiceName + "/Login"
	AccountService_RefreshToken_FullMethodName     = "/" + ServiceName + "/RefreshToken"
	AccountService_Logout_FullMethodName           = "/" + ServiceName + "/Logout"
	AccountService_ChangePassword_FullMethodName   = "/" + ServiceName + "/ChangePassword"
	AccountService_CurrentUser_FullMethodName      = "/" + ServiceName + "/CurrentUser"
	AccountService_UpdateAccount_FullMethodName    = "/" + ServiceName + "/UpdateAccount"
	AccountService_UpdateAvatar_FullMethodName     = "/" + ServiceName + "/UpdateAvatar"
	AccountService_UpdateCoverImage_FullMethodName = "/" + ServiceName + "/UpdateCoverImage"
	AccountService_Ping_FullMethodName             = "/" + ServiceName + "/Ping"
)

// AccountServiceServer is the server API for the account service.
type AccountServiceServer interface {
	Register(context.Context, *RegisterRequest) (*UserResponse, error)
	Login(context.Context, *LoginRequest) (*SessionResponse, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*SessionResponse, error)
	Logout(context.Context, *Empty) (*Empty, error)
	ChangePassword(context.Context, *ChangePasswordRequest) (*Empty, error)
	CurrentUser(context.Context, *Empty) (*UserResponse, error)
	UpdateAccount(context.Context, *UpdateAccountRequest) (*UserResponse, error)
	UpdateAvatar(context.Context, *UpdateImageRequest) (*UserResponse, error)
	UpdateCoverImage(context.Context, *UpdateImageRequest) (*UserResponse, error)
	Ping(context.Context, *Empty) (*PingResponse, error)
}

// UnimplementedAccountServiceServer answers every call with codes.Unimplemented.
type UnimplementedAccountServiceServer struct{}

func (UnimplementedAccountServiceServer) Register(context.Context, *RegisterRequest) (*UserResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Register not implemented")
}
func (UnimplementedAccountServiceServer) Login(context.Context, *LoginRequest) (*SessionResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}
func (UnimplementedAccountServiceServer) RefreshToken(context.Context, *RefreshTokenRequest) (*SessionResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RefreshToken not implemented")
}
func (UnimplementedAccountServiceServer) Logout(context.Context, *Empty) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method Logout not implemented")
}
func (UnimplementedAccountServiceServer) ChangePassword(context.Context, *ChangePasswordRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method ChangePassword not implemented")
}
func (UnimplementedAccountServiceServer) CurrentUser(context.Context, *Empty) (*UserResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CurrentUser not implemented")
}
func (UnimplementedAccountServiceServer) UpdateAccount(context.Context, *UpdateAccountRequest) (*UserResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateAccount not implemented")
}
func (UnimplementedAccountServiceServer) UpdateAvatar(context.Context, *UpdateImageRequest) (*UserResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateAvatar not implemented")
}
func (UnimplementedAccountServiceServer) UpdateCoverImage(context.Context, *UpdateImageRequest) (*UserResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateCoverImage not implemented")
}
func (UnimplementedAccountServiceServer) Ping(context.Context, *Empty) (*PingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}

func RegisterAccountServiceServer(s grpc.ServiceRegistrar, srv AccountServiceServer) {
	s.RegisterService(&AccountService_ServiceDesc, srv)
}

// unary adapts a typed server method to a grpc.MethodHandler.
func unary[Req, Resp any](fullMethod string, call func(AccountServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AccountServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AccountServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var AccountService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AccountServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unary(AccountService_Register_FullMethodName, AccountServiceServer.Register)},
		{MethodName: "Login", Handler: unary(AccountService_Login_FullMethodName, AccountServiceServer.Login)},
		{MethodName: "RefreshToken", Handler: unary(AccountService_RefreshToken_FullMethodName, AccountServiceServer.RefreshToken)},
		{MethodName: "Logout", Handler: unary(AccountService_Logout_FullMethodName, AccountServiceServer.Logout)},
		{MethodName: "ChangePassword", Handler: unary(AccountService_ChangePassword_FullMethodName, AccountServiceServer.ChangePassword)},
		{MethodName: "CurrentUser", Handler: unary(AccountService_CurrentUser_FullMethodName, AccountServiceServer.CurrentUser)},
		{MethodName: "UpdateAccount", Handler: unary(AccountService_UpdateAccount_FullMethodName, AccountServiceServer.UpdateAccount)},
		{MethodName: "UpdateAvatar", Handler: unary(AccountService_UpdateAvatar_FullMethodName, AccountServiceServer.UpdateAvatar)},
		{MethodName: "UpdateCoverImage", Handler: unary(AccountService_UpdateCoverImage_FullMethodName, AccountServiceServer.UpdateCoverImage)},
		{MethodName: "Ping", Handler: unary(AccountService_Ping_FullMethodName, AccountServiceServer.Ping)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "accountkeeper/v1/accounts",
}

// AccountServiceClient is the client API for the account service.
type AccountServiceClient interface {
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*UserResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*SessionResponse, error)
	RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*SessionResponse, error)
	Logout(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Empty, error)
	ChangePassword(ctx context.Context, in *ChangePasswordRequest, opts ...grpc.CallOption) (*Empty, error)
	CurrentUser(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*UserResponse, error)
	UpdateAccount(ctx context.Context, in *UpdateAccountRequest, opts ...grpc.CallOption) (*UserResponse, error)
	UpdateAvatar(ctx context.Context, in *UpdateImageRequest, opts ...grpc.CallOption) (*UserResponse, error)
	UpdateCoverImage(ctx context.Context, in *UpdateImageRequest, opts ...grpc.CallOption) (*UserResponse, error)
	Ping(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*PingResponse, error)
}

type accountServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAccountServiceClient(cc grpc.ClientConnInterface) AccountServiceClient {
	return &accountServiceClient{cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{CallOption()}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *accountServiceClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*UserResponse, error) {
	return invoke[UserResponse](ctx, c.cc, AccountService_Register_FullMethodName, in, opts)
}

func (c *accountServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, c.cc, AccountService_Login_FullMethodName, in, opts)
}

func (c *accountServiceClient) RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, c.cc, AccountService_RefreshToken_FullMethodName, in, opts)
}

func (c *accountServiceClient) Logout(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, AccountService_Logout_FullMethodName, in, opts)
}

func (c *accountServiceClient) ChangePassword(ctx context.Context, in *ChangePasswordRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, AccountService_ChangePassword_FullMethodName, in, opts)
}

func (c *accountServiceClient) CurrentUser(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*UserResponse, error) {
	return invoke[UserResponse](ctx, c.cc, AccountService_CurrentUser_FullMethodName, in, opts)
}

func (c *accountServiceClient) UpdateAccount(ctx context.Context, in *UpdateAccountRequest, opts ...grpc.CallOption) (*UserResponse, error) {
	return invoke[UserResponse](ctx, c.cc, AccountService_UpdateAccount_FullMethodName, in, opts)
}

func (c *accountServiceClient) UpdateAvatar(ctx context.Context, in *UpdateImageRequest, opts ...grpc.CallOption) (*UserResponse, error) {
	return invoke[UserResponse](ctx, c.cc, AccountService_UpdateAvatar_FullMethodName, in, opts)
}

func (c *accountServiceClient) UpdateCoverImage(ctx context.Context, in *UpdateImageRequest, opts ...grpc.CallOption) (*UserResponse, error) {
	return invoke[UserResponse](ctx, c.cc, AccountService_UpdateCoverImage_FullMethodName, in, opts)
}

func (c *accountServiceClient) Ping(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, AccountService_Ping_FullMethodName, in, opts)
}
