package grpc

import (
	"bytes"
	"context"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	pb "github.com/dmitrijs2005/accountkeeper/internal/proto"
	"github.com/dmitrijs2005/accountkeeper/internal/server/auth"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
	"github.com/dmitrijs2005/accountkeeper/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) Register(ctx context.Context, req *pb.RegisterRequest) (*pb.UserResponse, error) {
	user, err := s.users.Register(ctx, services.RegisterRequest{
		UserName:   req.Username,
		Email:      req.Email,
		FullName:   req.FullName,
		Password:   req.Password,
		Avatar:     toAsset(req.Avatar),
		CoverImage: toAsset(req.CoverImage),
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return &pb.UserResponse{User: toUser(user)}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *pb.LoginRequest) (*pb.SessionResponse, error) {
	session, err := s.users.Login(ctx, services.LoginRequest{
		UserName: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return toSession(session), nil
}

// RefreshToken takes the token from the request body, falling back to
// refresh_token metadata.
func (s *GRPCServer) RefreshToken(ctx context.Context, req *pb.RefreshTokenRequest) (*pb.SessionResponse, error) {
	token := req.RefreshToken
	if token == "" {
		token = metadataValue(ctx, common.RefreshTokenHeaderName)
	}

	session, err := s.users.RefreshToken(ctx, token)
	if err != nil {
		return nil, toStatus(err)
	}
	return toSession(session), nil
}

func (s *GRPCServer) Logout(ctx context.Context, _ *pb.Empty) (*pb.Empty, error) {
	id, err := identity(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.users.Logout(ctx, id.UserID); err != nil {
		return nil, toStatus(err)
	}
	return &pb.Empty{}, nil
}

func (s *GRPCServer) ChangePassword(ctx context.Context, req *pb.ChangePasswordRequest) (*pb.Empty, error) {
	id, err := identity(ctx)
	if err != nil {
		return nil, err
	}
	err = s.users.ChangePassword(ctx, id.UserID, services.ChangePasswordRequest{
		OldPassword:     req.OldPassword,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return &pb.Empty{}, nil
}

func (s *GRPCServer) CurrentUser(ctx context.Context, _ *pb.Empty) (*pb.UserResponse, error) {
	id, err := identity(ctx)
	if err != nil {
		return nil, err
	}
	return s.userResponse(s.users.CurrentUser(ctx, id.UserID))
}

func (s *GRPCServer) UpdateAccount(ctx context.Context, req *pb.UpdateAccountRequest) (*pb.UserResponse, error) {
	id, err := identity(ctx)
	if err != nil {
		return nil, err
	}
	return s.userResponse(s.users.UpdateAccountDetails(ctx, id.UserID, req.FullName, req.Email))
}

func (s *GRPCServer) UpdateAvatar(ctx context.Context, req *pb.UpdateImageRequest) (*pb.UserResponse, error) {
	id, err := identity(ctx)
	if err != nil {
		return nil, err
	}
	return s.userResponse(s.users.UpdateAvatar(ctx, id.UserID, toAsset(req.File)))
}

func (s *GRPCServer) UpdateCoverImage(ctx context.Context, req *pb.UpdateImageRequest) (*pb.UserResponse, error) {
	id, err := identity(ctx)
	if err != nil {
		return nil, err
	}
	return s.userResponse(s.users.UpdateCoverImage(ctx, id.UserID, toAsset(req.File)))
}

func (s *GRPCServer) Ping(ctx context.Context, _ *pb.Empty) (*pb.PingResponse, error) {
	return &pb.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) userResponse(user *models.PublicUser, err error) (*pb.UserResponse, error) {
	if err != nil {
		return nil, toStatus(err)
	}
	return &pb.UserResponse{User: toUser(user)}, nil
}

func identity(ctx context.Context) (*auth.Identity, error) {
	id, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, common.ErrUnauthenticated.Error())
	}
	return id, nil
}

func toAsset(f *pb.File) *models.Asset {
	if f == nil || len(f.Data) == 0 {
		return nil
	}
	return &models.Asset{
		FileName:    f.FileName,
		ContentType: f.ContentType,
		Size:        int64(len(f.Data)),
		Body:        bytes.NewReader(f.Data),
	}
}

func toUser(u *models.PublicUser) *pb.User {
	if u == nil {
		return nil
	}
	return &pb.User{
		ID:         u.ID,
		Username:   u.UserName,
		Email:      u.Email,
		FullName:   u.FullName,
		Avatar:     u.AvatarURL,
		CoverImage: u.CoverImageURL,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func toSession(s *services.Session) *pb.SessionResponse {
	return &pb.SessionResponse{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		User:         toUser(s.User),
	}
}
