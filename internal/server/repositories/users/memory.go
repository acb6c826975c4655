package users

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps accounts in a map. A single mutex makes every
// method, including the conditional update, atomic.
type MemoryRepository struct {
	mu    sync.Mutex
	users map[string]models.User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]models.User)}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkUnique("", user.UserName, user.Email); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user

	out := *user
	return &out, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

func (r *MemoryRepository) GetByUsernameOrEmail(ctx context.Context, userName, email string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var found *models.User
	for _, u := range r.users {
		if (userName != "" && u.UserName == userName) || (email != "" && u.Email == email) {
			if found == nil || u.CreatedAt.Before(found.CreatedAt) {
				c := u
				found = &c
			}
		}
	}
	if found == nil {
		return nil, common.ErrorNotFound
	}
	return found, nil
}

func (r *MemoryRepository) UpdateFields(ctx context.Context, id string, upd models.UserUpdate, cond *models.UpdateCondition) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if cond != nil && (!u.RefreshToken.Valid || u.RefreshToken.String != cond.RefreshToken) {
		return nil, common.ErrorNotFound
	}
	if upd.IsEmpty() {
		return &u, nil
	}
	if upd.Email != nil {
		if err := r.checkUnique(id, "", *upd.Email); err != nil {
			return nil, err
		}
	}

	if upd.FullName != nil {
		u.FullName = *upd.FullName
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
	if upd.AvatarURL != nil {
		u.AvatarURL = *upd.AvatarURL
	}
	if upd.CoverImageURL != nil {
		u.CoverImageURL = *upd.CoverImageURL
	}
	if upd.RefreshToken != nil {
		u.RefreshToken = *upd.RefreshToken
	}
	u.UpdatedAt = time.Now().UTC()
	r.users[id] = u

	return &u, nil
}

// checkUnique must be called with mu held.
func (r *MemoryRepository) checkUnique(selfID, userName, email string) error {
	for id, u := range r.users {
		if id == selfID {
			continue
		}
		if userName != "" && u.UserName == userName {
			return fmt.Errorf("%w: users_username_key", common.ErrConflict)
		}
		if email != "" && u.Email == email {
			return fmt.Errorf("%w: users_email_key", common.ErrConflict)
		}
	}
	return nil
}
