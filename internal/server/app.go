// Package server wires the account service together and runs its gRPC and
// HTTP endpoints until the process is signalled.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/accountkeeper/internal/logging"
	"github.com/dmitrijs2005/accountkeeper/internal/server/auth"
	"github.com/dmitrijs2005/accountkeeper/internal/server/config"
	"github.com/dmitrijs2005/accountkeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/accountkeeper/internal/server/metrics"
	"github.com/dmitrijs2005/accountkeeper/internal/server/password"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/accountkeeper/internal/server/services"
	"github.com/dmitrijs2005/accountkeeper/internal/server/storage"

	gs "github.com/dmitrijs2005/accountkeeper/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	manager     repomanager.RepositoryManager
	metrics     *metrics.Recorder
	guard       *auth.Guard
	userService *services.UserService
}

func warnInsecureDefaults(ctx context.Context, logger logging.Logger, c *config.Config) {
	if c.DevelopmentSecrets() {
		logger.Warn(ctx, "token secrets are the built-in development defaults, override them before deploying")
	}
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	logger := logging.NewJSON(os.Stdout, logging.ParseLevel(c.LogLevel))

	um, err := repomanager.New(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := um.RunMigrations(ctx); err != nil {
		_ = um.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	hasher, err := password.NewHasher(c.BcryptCost)
	if err != nil {
		_ = um.Close()
		return nil, err
	}

	issuer, err := auth.NewIssuer(auth.IssuerConfig{
		AccessSecret:  []byte(c.AccessSecret),
		AccessTTL:     c.AccessTokenValidityDuration,
		RefreshSecret: []byte(c.RefreshSecret),
		RefreshTTL:    c.RefreshTokenValidityDuration,
	})
	if err != nil {
		_ = um.Close()
		return nil, err
	}

	uploader, err := newUploader(ctx, c)
	if err != nil {
		_ = um.Close()
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	rec := metrics.New()
	us := services.NewUserService(um, hasher, issuer, uploader,
		services.WithLogger(logger),
		services.WithMetrics(rec),
		services.WithTimeout(c.OperationTimeout))

	logger.Info(ctx, "config loaded", "config", c.String())
	warnInsecureDefaults(ctx, logger, c)

	return &App{
		config:      c,
		logger:      logger,
		manager:     um,
		metrics:     rec,
		guard:       auth.NewGuard(issuer),
		userService: us,
	}, nil
}

// newUploader picks S3 when a bucket is configured.
func newUploader(ctx context.Context, c *config.Config) (storage.Uploader, error) {
	if c.S3Bucket == "" {
		return storage.NewMemoryUploader("/assets"), nil
	}
	return storage.NewS3Uploader(ctx, storage.S3Config{
		User:      c.S3RootUser,
		Password:  c.S3RootPassword,
		Bucket:    c.S3Bucket,
		Region:    c.S3Region,
		Endpoint:  c.S3BaseEndpoint,
		PublicURL: c.S3PublicURL,
	})
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService, app.guard)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.userService, app.guard, httpapi.Options{
		SecureCookies: app.config.SecureCookies,
		CORSOrigins:   app.config.CORSOrigins,
		AccessTTL:     app.config.AccessTokenValidityDuration,
		RefreshTTL:    app.config.RefreshTokenValidityDuration,
		Metrics:       app.metrics.Handler(),
	})
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	if app.config.EndpointAddrHTTP != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startHTTPServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	if err := app.manager.Close(); err != nil {
		app.logger.Error(ctx, "close store", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
