package client

import (
	"context"

	pb "github.com/dmitrijs2005/accountkeeper/internal/proto"
)

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	UserName   string
	Email      string
	FullName   string
	Password   string
	Avatar     *pb.File
	CoverImage *pb.File
}

// Client is what the CLI needs from the server.
type Client interface {
	Close() error
	Ping(ctx context.Context) error
	Register(ctx context.Context, in RegisterInput) (*pb.User, error)
	Login(ctx context.Context, identifier, password string) (*pb.User, error)
	Refresh(ctx context.Context) error
	CurrentUser(ctx context.Context) (*pb.User, error)
	ChangePassword(ctx context.Context, oldPassword, newPassword, confirm string) error
	UpdateAccount(ctx context.Context, fullName, email string) (*pb.User, error)
	Logout(ctx context.Context) error
	LoggedIn() bool
}
