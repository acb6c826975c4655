package grpc

import (
	"errors"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps a service error class to a gRPC status. Infrastructure
// errors get a generic message so library details never reach the client.
func toStatus(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, common.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrConflict):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, common.ErrUnauthenticated):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, common.ErrInfrastructure):
		return status.Error(codes.Unavailable, common.ErrInfrastructure.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
