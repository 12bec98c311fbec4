// Package app assembles the Sumdays client from its configuration: the local
// store, the sync server client, the background workers and the REPL.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/sumdays/internal/client/cli"
	"github.com/dmitrijs2005/sumdays/internal/client/client"
	"github.com/dmitrijs2005/sumdays/internal/client/config"
	"github.com/dmitrijs2005/sumdays/internal/client/ids"
	"github.com/dmitrijs2005/sumdays/internal/client/services"
	"github.com/dmitrijs2005/sumdays/internal/client/session"
	"github.com/dmitrijs2005/sumdays/internal/client/store"
	"github.com/dmitrijs2005/sumdays/internal/client/worker"
	"github.com/dmitrijs2005/sumdays/internal/filex"
	"github.com/dmitrijs2005/sumdays/internal/logging"
)

// Log rotation limits of the client log file.
const (
	logMaxSizeMB  = 10
	logMaxBackups = 3
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	logFile   io.Closer
	store     *store.Store
	client    *client.HTTPClient
	scheduler *worker.Scheduler
	cli       *cli.App
}

// NewApp opens the local store and wires every client component. Logs go to
// a rotating file so that they do not interleave with the REPL.
func NewApp(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) (*App, error) {
	if err := filex.EnsureParentDir(cfg.LogFile); err != nil {
		return nil, fmt.Errorf("log dir: %w", err)
	}
	logFile := logging.NewRotatingFile(cfg.LogFile, logMaxSizeMB, logMaxBackups)
	logger := logging.New(logging.Options{Level: cfg.LogLevel, Service: "sumdays-client", Writer: logFile})

	if err := filex.EnsureParentDir(cfg.DBPath); err != nil {
		logFile.Close()
		return nil, fmt.Errorf("db dir: %w", err)
	}
	st, err := store.Open(ctx, cfg.DBPath)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("store init error: %w", err)
	}

	c, err := client.NewHTTPClient(client.Options{
		BaseURL:    cfg.ServerURL,
		HealthAddr: cfg.HealthAddr,
		Timeout:    cfg.RequestTimeout,
	})
	if err != nil {
		st.Close()
		logFile.Close()
		return nil, fmt.Errorf("client init error: %w", err)
	}

	sessions := session.NewManager(st, logger)
	scheduler := worker.NewScheduler(logger, worker.DefaultBackoff)
	backup := worker.NewBackupWorker(sessions, st, c, logger)
	initial := worker.NewInitialSyncWorker(sessions, st, c, logger)
	journal := services.NewJournalService(st, ids.NewGenerator())

	a := &App{config: cfg, logger: logger, logFile: logFile, store: st, client: c, scheduler: scheduler}

	// The REPL owns the connectivity watcher, and the periodic backup only
	// runs while it reports the server as reachable.
	var repl *cli.App
	online := func(ctx context.Context) bool { return repl.Online(ctx) }

	syncSvc := services.NewSyncService(scheduler, sessions, st, backup, initial, cfg.SyncInterval, online)
	repl = cli.NewApp(cli.Deps{
		Auth:    services.NewAuthService(sessions, syncSvc, logger),
		Journal: journal,
		Photos:  services.NewPhotoService(sessions, c, journal),
		Sync:    syncSvc,
		Ping:    c.Ping,
		Log:     logger,
	}, in, out)
	a.cli = repl

	return a, nil
}

func (a *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run blocks in the REPL until the user exits or a signal arrives, then
// stops the workers and releases resources.
func (a *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	a.logger.Info(ctx, "Starting client...", "server", a.config.ServerURL, "db", a.config.DBPath)
	a.initSignalHandler(cancelFunc)

	a.cli.Root(ctx, a.config.OnlineCheckInterval)

	a.Close()
}

// Close stops background work and closes the store, client and log file.
func (a *App) Close() {
	ctx := context.Background()
	a.scheduler.Stop()
	if err := a.client.Close(); err != nil {
		a.logger.Warn(ctx, "close client", "error", err)
	}
	if err := a.store.Close(); err != nil {
		a.logger.Warn(ctx, "close store", "error", err)
	}
	a.logger.Info(ctx, "client stopped")
	a.logFile.Close()
}
