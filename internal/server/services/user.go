// Package services contains server-side business logic. This file implements
// UserService, which owns the account and session lifecycle: registration,
// login, refresh-token rotation, logout and password change.
package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/logging"
	"github.com/dmitrijs2005/accountkeeper/internal/server/auth"
	"github.com/dmitrijs2005/accountkeeper/internal/server/metrics"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
	"github.com/dmitrijs2005/accountkeeper/internal/server/password"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/users"
	"github.com/dmitrijs2005/accountkeeper/internal/server/storage"
)

const (
	avatarFolder = "avatars"
	coverFolder  = "covers"

	defaultOperationTimeout = 5 * time.Second
)

var (
	errInvalidCredentials = fmt.Errorf("%w: invalid user credentials", common.ErrUnauthenticated)
	errStaleRefreshToken  = fmt.Errorf("%w: refresh token is expired or used", common.ErrUnauthenticated)
)

// Session is the result of a successful login or refresh.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *models.PublicUser
}

// RegisterRequest holds registration input. Avatar is required; CoverImage
// is optional.
type RegisterRequest struct {
	UserName   string
	Email      string
	FullName   string
	Password   string
	Avatar     *models.Asset
	CoverImage *models.Asset
}

// LoginRequest identifies the account by username, email or both.
type LoginRequest struct {
	UserName string
	Email    string
	Password string
}

// ChangePasswordRequest is the input of ChangePassword.
type ChangePasswordRequest struct {
	OldPassword     string
	NewPassword     string
	ConfirmPassword string
}

// UserService provides account operations. Every method returns nil or an
// error wrapping exactly one of common.ErrValidation, common.ErrConflict,
// common.ErrUnauthenticated or common.ErrInfrastructure.
type UserService struct {
	repomanager repomanager.RepositoryManager
	hasher      *password.Hasher
	issuer      *auth.Issuer
	uploader    storage.Uploader
	logger      logging.Logger
	metrics     *metrics.Recorder
	timeout     time.Duration
}

type Option func(*UserService)

func WithLogger(l logging.Logger) Option {
	return func(s *UserService) { s.logger = l }
}

func WithMetrics(m *metrics.Recorder) Option {
	return func(s *UserService) { s.metrics = m }
}

// WithTimeout bounds every operation, store and upload calls included.
func WithTimeout(d time.Duration) Option {
	return func(s *UserService) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func NewUserService(m repomanager.RepositoryManager, hasher *password.Hasher, issuer *auth.Issuer,
	uploader storage.Uploader, opts ...Option) *UserService {
	s := &UserService{
		repomanager: m,
		hasher:      hasher,
		issuer:      issuer,
		uploader:    uploader,
		logger:      logging.Nop{},
		timeout:     defaultOperationTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("module", "users")
	return s
}

// Register creates an account and returns its public projection.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*models.PublicUser, error) {
	var out *models.PublicUser
	err := s.run(ctx, "register", func(ctx context.Context) error {
		userName := strings.ToLower(strings.TrimSpace(req.UserName))
		email := strings.ToLower(strings.TrimSpace(req.Email))
		fullName := strings.TrimSpace(req.FullName)

		if userName == "" || email == "" || fullName == "" || strings.TrimSpace(req.Password) == "" {
			return fmt.Errorf("%w: all fields are required", common.ErrValidation)
		}

		if err := s.ensureAvailable(ctx, s.repomanager.Users(), userName, email); err != nil {
			return err
		}

		if req.Avatar == nil || req.Avatar.Body == nil {
			return fmt.Errorf("%w: avatar file is required", common.ErrValidation)
		}
		avatarURL, err := s.uploader.Upload(ctx, avatarFolder, *req.Avatar)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Warn(ctx, "avatar upload failed", "error", err)
			return fmt.Errorf("%w: avatar upload failed", common.ErrValidation)
		}

		var coverURL string
		if req.CoverImage != nil && req.CoverImage.Body != nil {
			coverURL, err = s.uploader.Upload(ctx, coverFolder, *req.CoverImage)
			if err != nil {
				s.logger.Warn(ctx, "cover image upload failed, continuing without it", "error", err)
				coverURL = ""
			}
		}

		hash, err := s.hasher.Hash(req.Password)
		if err != nil {
			return err
		}

		user := &models.User{
			UserName:      userName,
			Email:         email,
			FullName:      fullName,
			PasswordHash:  hash,
			AvatarURL:     avatarURL,
			CoverImageURL: coverURL,
		}

		// uploads and hashing are slow; check again right before the insert
		err = s.repomanager.WithTx(ctx, func(ctx context.Context, repo users.Repository) error {
			if err := s.ensureAvailable(ctx, repo, userName, email); err != nil {
				return err
			}
			created, err := repo.Create(ctx, user)
			if err != nil {
				return err
			}
			user = created
			return nil
		})
		if err != nil {
			return err
		}

		s.logger.Info(ctx, "user registered", "user_id", user.ID)
		out = user.Public()
		return nil
	})
	return out, err
}

// Login verifies credentials and starts a new session. The stored refresh
// token is overwritten, which ends any other session of the account.
func (s *UserService) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	var out *Session
	err := s.run(ctx, "login", func(ctx context.Context) error {
		userName := strings.ToLower(strings.TrimSpace(req.UserName))
		email := strings.ToLower(strings.TrimSpace(req.Email))

		if userName == "" && email == "" {
			return fmt.Errorf("%w: username or email is required", common.ErrValidation)
		}
		if req.Password == "" {
			return fmt.Errorf("%w: password is required", common.ErrValidation)
		}

		repo := s.repomanager.Users()
		user, err := repo.GetByUsernameOrEmail(ctx, userName, email)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return errInvalidCredentials
			}
			return err
		}

		ok, err := s.hasher.Verify(user.PasswordHash, req.Password)
		if err != nil {
			return err
		}
		if !ok {
			return errInvalidCredentials
		}

		session, err := s.startSession(ctx, repo, user, nil)
		if err != nil {
			return err
		}

		s.logger.Info(ctx, "user logged in", "user_id", user.ID)
		out = session
		return nil
	})
	return out, err
}

// RefreshToken exchanges the current refresh token for a new pair. The swap
// is a single conditional update: of two concurrent calls with the same
// token, only one succeeds.
func (s *UserService) RefreshToken(ctx context.Context, incoming string) (*Session, error) {
	var out *Session
	err := s.run(ctx, "refresh", func(ctx context.Context) error {
		if incoming == "" {
			return fmt.Errorf("%w: refresh token is required", common.ErrUnauthenticated)
		}

		claims, err := s.issuer.ParseRefreshToken(incoming)
		if err != nil {
			return fmt.Errorf("%w: %w", common.ErrUnauthenticated, err)
		}

		repo := s.repomanager.Users()
		user, err := repo.GetByID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return fmt.Errorf("%w: account no longer exists", common.ErrUnauthenticated)
			}
			return err
		}

		if !user.RefreshToken.Valid ||
			subtle.ConstantTimeCompare([]byte(user.RefreshToken.String), []byte(incoming)) != 1 {
			s.logger.Warn(ctx, "refresh token reuse rejected", "user_id", user.ID)
			return errStaleRefreshToken
		}

		session, err := s.startSession(ctx, repo, user, &models.UpdateCondition{RefreshToken: incoming})
		if err != nil {
			return err
		}

		s.logger.Info(ctx, "session refreshed", "user_id", user.ID)
		out = session
		return nil
	})
	return out, err
}

// Logout clears the stored refresh token. It is idempotent, and a deleted
// account is not an error.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	return s.run(ctx, "logout", func(ctx context.Context) error {
		_, err := s.repomanager.Users().UpdateFields(ctx, userID,
			models.UserUpdate{RefreshToken: &sql.NullString{}}, nil)
		if err != nil && !errors.Is(err, common.ErrorNotFound) {
			return err
		}
		s.logger.Info(ctx, "user logged out", "user_id", userID)
		return nil
	})
}

// ChangePassword replaces the password hash. The current session stays valid.
func (s *UserService) ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error {
	return s.run(ctx, "change_password", func(ctx context.Context) error {
		if req.NewPassword != req.ConfirmPassword {
			return fmt.Errorf("%w: new password and confirmation do not match", common.ErrValidation)
		}
		if strings.TrimSpace(req.NewPassword) == "" {
			return fmt.Errorf("%w: new password is required", common.ErrValidation)
		}

		repo := s.repomanager.Users()
		user, err := s.loadAccount(ctx, repo, userID)
		if err != nil {
			return err
		}

		ok, err := s.hasher.Verify(user.PasswordHash, req.OldPassword)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: invalid old password", common.ErrUnauthenticated)
		}

		hash, err := s.hasher.Hash(req.NewPassword)
		if err != nil {
			return err
		}
		if _, err := repo.UpdateFields(ctx, userID, models.UserUpdate{PasswordHash: &hash}, nil); err != nil {
			return accountError(err)
		}

		s.logger.Info(ctx, "password changed", "user_id", userID)
		return nil
	})
}

// CurrentUser returns the public projection of the authenticated account.
func (s *UserService) CurrentUser(ctx context.Context, userID string) (*models.PublicUser, error) {
	var out *models.PublicUser
	err := s.run(ctx, "current_user", func(ctx context.Context) error {
		user, err := s.loadAccount(ctx, s.repomanager.Users(), userID)
		if err != nil {
			return err
		}
		out = user.Public()
		return nil
	})
	return out, err
}

// UpdateAccountDetails changes display name and email. The password hash is
// not touched.
func (s *UserService) UpdateAccountDetails(ctx context.Context, userID, fullName, email string) (*models.PublicUser, error) {
	var out *models.PublicUser
	err := s.run(ctx, "update_account", func(ctx context.Context) error {
		fullName = strings.TrimSpace(fullName)
		email = strings.ToLower(strings.TrimSpace(email))
		if fullName == "" || email == "" {
			return fmt.Errorf("%w: full name and email are required", common.ErrValidation)
		}

		user, err := s.repomanager.Users().UpdateFields(ctx, userID,
			models.UserUpdate{FullName: &fullName, Email: &email}, nil)
		if err != nil {
			return accountError(err)
		}
		out = user.Public()
		return nil
	})
	return out, err
}

// UpdateAvatar uploads asset and stores its URL as the avatar.
func (s *UserService) UpdateAvatar(ctx context.Context, userID string, asset *models.Asset) (*models.PublicUser, error) {
	var out *models.PublicUser
	err := s.run(ctx, "update_avatar", func(ctx context.Context) error {
		user, err := s.replaceAsset(ctx, userID, avatarFolder, asset, func(url string) models.UserUpdate {
			return models.UserUpdate{AvatarURL: &url}
		})
		if err != nil {
			return err
		}
		out = user.Public()
		return nil
	})
	return out, err
}

// UpdateCoverImage uploads asset and stores its URL as the cover image.
func (s *UserService) UpdateCoverImage(ctx context.Context, userID string, asset *models.Asset) (*models.PublicUser, error) {
	var out *models.PublicUser
	err := s.run(ctx, "update_cover_image", func(ctx context.Context) error {
		user, err := s.replaceAsset(ctx, userID, coverFolder, asset, func(url string) models.UserUpdate {
			return models.UserUpdate{CoverImageURL: &url}
		})
		if err != nil {
			return err
		}
		out = user.Public()
		return nil
	})
	return out, err
}

// --- helpers below ---

// run applies the operation timeout, folds unclassified errors into
// common.ErrInfrastructure and records the outcome.
func (s *UserService) run(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := classify(fn(ctx))
	s.metrics.Observe(op, start, err)

	if err != nil && errors.Is(err, common.ErrInfrastructure) {
		s.logger.Error(ctx, "operation failed", "op", op, "error", err)
	}
	return err
}

func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %w", common.ErrInfrastructure, err)
	case errors.Is(err, common.ErrValidation),
		errors.Is(err, common.ErrConflict),
		errors.Is(err, common.ErrUnauthenticated),
		errors.Is(err, common.ErrInfrastructure):
		return err
	default:
		return fmt.Errorf("%w: %w", common.ErrInfrastructure, err)
	}
}

// accountError maps a store error for the caller's own account.
func accountError(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("%w: account no longer exists", common.ErrUnauthenticated)
	}
	return err
}

func (s *UserService) loadAccount(ctx context.Context, repo users.Repository, userID string) (*models.User, error) {
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return nil, accountError(err)
	}
	return user, nil
}

func (s *UserService) ensureAvailable(ctx context.Context, repo users.Repository, userName, email string) error {
	_, err := repo.GetByUsernameOrEmail(ctx, userName, email)
	switch {
	case err == nil:
		return fmt.Errorf("%w: user with email or username already exists", common.ErrConflict)
	case errors.Is(err, common.ErrorNotFound):
		return nil
	default:
		return err
	}
}

// startSession issues a new token pair and stores the refresh token. With a
// non-nil cond the store only accepts the write if the current token still
// matches, otherwise the write is unconditional.
func (s *UserService) startSession(ctx context.Context, repo users.Repository, user *models.User, cond *models.UpdateCondition) (*Session, error) {
	access, err := s.issuer.IssueAccessToken(auth.Identity{
		UserID:   user.ID,
		Email:    user.Email,
		UserName: user.UserName,
		FullName: user.FullName,
	})
	if err != nil {
		return nil, err
	}
	refresh, err := s.issuer.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	updated, err := repo.UpdateFields(ctx, user.ID,
		models.UserUpdate{RefreshToken: &sql.NullString{String: refresh, Valid: true}}, cond)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			if cond != nil {
				return nil, errStaleRefreshToken
			}
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	return &Session{AccessToken: access, RefreshToken: refresh, User: updated.Public()}, nil
}

func (s *UserService) replaceAsset(ctx context.Context, userID, folder string, asset *models.Asset,
	update func(url string) models.UserUpdate) (*models.User, error) {
	if asset == nil || asset.Body == nil {
		return nil, fmt.Errorf("%w: %s file is missing", common.ErrValidation, strings.TrimSuffix(folder, "s"))
	}

	url, err := s.uploader.Upload(ctx, folder, *asset)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Warn(ctx, "asset upload failed", "folder", folder, "error", err)
		return nil, fmt.Errorf("%w: upload failed", common.ErrValidation)
	}

	user, err := s.repomanager.Users().UpdateFields(ctx, userID, update(url), nil)
	if err != nil {
		return nil, accountError(err)
	}
	return user, nil
}
