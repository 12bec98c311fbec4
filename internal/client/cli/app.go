package cli

import (
	"bufio"
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/sumdays/internal/client/services"
	"github.com/dmitrijs2005/sumdays/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// Deps are the services the REPL drives.
type Deps struct {
	Auth    services.AuthService
	Journal services.JournalService
	Photos  services.PhotoService
	Sync    services.SyncService
	Ping    func(ctx context.Context) error
	Log     logging.Logger
}

type App struct {
	auth    services.AuthService
	journal services.JournalService
	photos  services.PhotoService
	sync    services.SyncService
	ping    func(ctx context.Context) error
	log     logging.Logger

	mode   atomic.Value
	reader *bufio.Reader
	out    io.Writer
	now    func() time.Time
}

func NewApp(d Deps, in io.Reader, out io.Writer) *App {
	a := &App{
		auth:    d.Auth,
		journal: d.Journal,
		photos:  d.Photos,
		sync:    d.Sync,
		ping:    d.Ping,
		log:     d.Log.With("module", "cli"),
		reader:  bufio.NewReader(in),
		out:     out,
		now:     time.Now,
	}
	a.mode.Store(ModeOffline)
	return a
}

func (a *App) Mode() Mode {
	return a.mode.Load().(Mode)
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	if old := a.mode.Swap(mode); old != mode {
		a.log.Info(ctx, "connectivity changed", "mode", string(mode))
	}
}

func (a *App) isLoggedIn() bool {
	return a.auth.LoggedIn()
}

// Online reports the last observed connectivity; it gates the periodic backup.
func (a *App) Online(context.Context) bool {
	return a.Mode() == ModeOnline
}

func (a *App) checkOnline(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.ping(pingCtx)
	cancel()

	if err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}

// StartOnlineStatusWatcher probes the server every interval until ctx ends.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.checkOnline(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}
