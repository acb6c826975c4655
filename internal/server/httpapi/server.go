// Package httpapi exposes the account service as a JSON API with
// cookie-based sessions.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/logging"
	"github.com/dmitrijs2005/accountkeeper/internal/server/auth"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
	"github.com/dmitrijs2005/accountkeeper/internal/server/services"
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

// Options tune cookies, CORS and request limits.
type Options struct {
	SecureCookies  bool
	CORSOrigins    []string
	AccessTTL      time.Duration
	RefreshTTL     time.Duration
	MaxUploadBytes int64
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
}

const (
	defaultMaxUploadBytes = 5 << 20
	maxJSONBytes          = 16 << 10
)

type HTTPServer struct {
	address string
	handler http.Handler
	logger  logging.Logger
}

func NewHTTPServer(a string, l logging.Logger, us UserService, guard *auth.Guard, opts Options) *HTTPServer {
	logger := l.With("module", "http_server")
	return &HTTPServer{
		address: a,
		handler: NewRouter(us, guard, logger, opts),
		logger:  logger,
	}
}

func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
