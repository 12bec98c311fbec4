// Package server wires the Sumdays sync server: storage, services, the HTTP
// API and the gRPC health endpoint, and runs them until a shutdown signal.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/sumdays/internal/logging"
	"github.com/dmitrijs2005/sumdays/internal/server/config"
	gs "github.com/dmitrijs2005/sumdays/internal/server/grpc"
	"github.com/dmitrijs2005/sumdays/internal/server/httpapi"
	"github.com/dmitrijs2005/sumdays/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/sumdays/internal/server/services"
)

var (
	openDB         = repomanager.OpenPostgres
	newRepoManager = repomanager.NewPostgresRepositoryManager
)

type App struct {
	config       *config.Config
	logger       logging.Logger
	db           *sql.DB
	syncService  *services.SyncService
	photoService *services.PhotoService
	userService  *services.UserService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(logging.Options{
		Format:  c.LogFormat,
		Level:   c.LogLevel,
		Service: "sumdays-server",
	})

	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := newRepoManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		syncService: services.NewSyncService(db, rm, logger),
		photoService: services.NewPhotoService(services.StorageConfig{
			Region:       c.S3Region,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			BaseEndpoint: c.S3BaseEndpoint,
			Bucket:       c.S3Bucket,
			Expiry:       c.PresignExpiry,
		}, logger),
		userService: services.NewUserService(db, rm, c.SecretKey, c.TokenValidityDuration),
	}, nil
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

func (app *App) handler() http.Handler {
	h := httpapi.NewHandler(app.syncService, app.photoService, app.logger, app.config.RequestTimeout)
	return httpapi.NewRouter(h, httpapi.RouterOptions{
		Auth:         app.userService,
		MaxBodyBytes: app.config.MaxBodyBytes,
		Log:          app.logger,
	})
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config.HTTPAddr, app.handler(), app.logger, app.config.ShutdownTimeout)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.db.PingContext, 0)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled, a signal arrives or a server fails,
// then closes the database.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
