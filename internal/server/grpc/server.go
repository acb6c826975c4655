// Package grpc exposes the account service over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/accountkeeper/internal/logging"
	pb "github.com/dmitrijs2005/accountkeeper/internal/proto"
	"github.com/dmitrijs2005/accountkeeper/internal/server/auth"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
	"github.com/dmitrijs2005/accountkeeper/internal/server/services"
	"google.golang.org/grpc"
)

// UserService is the subset of services.UserService the handlers call.
type UserService interface {
	Register(ctx context.Context, req services.RegisterRequest) (*models.PublicUser, error)
	Login(ctx context.Context, req services.LoginRequest) (*services.Session, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.Session, error)
	Logout(ctx context.Context, userID string) error
	ChangePassword(ctx context.Context, userID string, req services.ChangePasswordRequest) error
	CurrentUser(ctx context.Context, userID string) (*models.PublicUser, error)
	UpdateAccountDetails(ctx context.Context, userID, fullName, email string) (*models.PublicUser, error)
	UpdateAvatar(ctx context.Context, userID string, asset *models.Asset) (*models.PublicUser, error)
	UpdateCoverImage(ctx context.Context, userID string, asset *models.Asset) (*models.PublicUser, error)
}

type GRPCServer struct {
	pb.UnimplementedAccountServiceServer
	address string
	users   UserService
	guard   *auth.Guard
	logger  logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, us UserService, guard *auth.Guard) *GRPCServer {
	return &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		users:   us,
		guard:   guard,
	}
}

// newServer builds the grpc.Server with interceptors and the service
// registered.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	pb.RegisterAccountServiceServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
