// Package users declares the credential store contract and its PostgreSQL and
// in-memory implementations.
package users

import (
	"context"

	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
)

// Repository is the credential store adapter.
//
// Lookups return common.ErrorNotFound when nothing matches. Create and
// UpdateFields return common.ErrConflict when a unique username or email
// would be duplicated.
type Repository interface {
	// Create inserts user and fills in ID and timestamps.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetByID returns the account with the given identifier.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByUsernameOrEmail returns an account whose username equals userName
	// or whose email equals email. Empty arguments never match.
	GetByUsernameOrEmail(ctx context.Context, userName, email string) (*models.User, error)
	// UpdateFields applies upd atomically. When cond is non-nil the update
	// only happens if the stored refresh token equals cond.RefreshToken;
	// otherwise common.ErrorNotFound is returned and nothing changes.
	UpdateFields(ctx context.Context, id string, upd models.UserUpdate, cond *models.UpdateCondition) (*models.User, error)
}
