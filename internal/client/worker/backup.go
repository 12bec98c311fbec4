package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/sumdays/internal/client/client"
	"github.com/dmitrijs2005/sumdays/internal/client/collector"
	"github.com/dmitrijs2005/sumdays/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/sumdays/internal/client/store"
	"github.com/dmitrijs2005/sumdays/internal/logging"
	"github.com/dmitrijs2005/sumdays/internal/wire"
)

// BackupName identifies the periodic delta upload.
const BackupName = "auto_backup"

// Uploader sends a delta to the server.
type Uploader interface {
	Sync(ctx context.Context, token string, req *wire.SyncRequest) error
}

// BackupWorker uploads the local delta and, once the server acknowledged
// the whole request, clears the flags of exactly the rows it sent.
type BackupWorker struct {
	sessions  Sessions
	store     *store.Store
	collector *collector.Collector
	client    Uploader
	log       logging.Logger
	now       func() time.Time
}

func NewBackupWorker(sessions Sessions, s *store.Store, c Uploader, log logging.Logger) *BackupWorker {
	return &BackupWorker{
		sessions:  sessions,
		store:     s,
		collector: collector.New(s),
		client:    c,
		log:       log.With("module", "backup"),
		now:       time.Now,
	}
}

func (w *BackupWorker) Run(ctx context.Context) (Result, error) {
	lease, ok := w.sessions.Current()
	if !ok {
		return Failure, ErrAuthMissing
	}

	pending, err := ResyncPending(ctx, w.store.Repositories().Metadata)
	if err != nil {
		return Retry, fmt.Errorf("%w: %w", ErrLocalStorage, err)
	}
	if pending {
		// local rows may belong to a previous account
		w.log.Warn(ctx, "upload refused until the initial sync completes")
		return Failure, ErrResyncPending
	}

	delta, err := w.collector.Collect(ctx)
	if err != nil {
		return Retry, fmt.Errorf("%w: %w", ErrLocalStorage, err)
	}
	if delta.IsEmpty() {
		w.log.Debug(ctx, "nothing to upload")
		return Success, nil
	}

	stats := delta.Stats()
	w.log.Info(ctx, "uploading delta", "edited", stats.Edited, "deleted", stats.Deleted)

	callCtx, cancel := callContext(ctx, lease)
	err = w.client.Sync(callCtx, lease.Token, delta.Request())
	cancel()

	if lease.Ended() {
		return Failure, ErrSessionEnded
	}
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			w.log.Warn(ctx, "server refused the session token", "error", err)
		} else {
			w.log.Warn(ctx, "upload failed", "error", err)
		}
		return Retry, err
	}

	var ack collector.AckStats
	err = w.store.WithTx(ctx, func(ctx context.Context, r *store.Repositories) error {
		if lease.Ended() {
			return ErrSessionEnded
		}
		var err error
		if ack, err = delta.Ack(ctx, r); err != nil {
			return err
		}
		return r.Metadata.SetTime(ctx, metadata.KeyLastSync, w.now())
	})
	if errors.Is(err, ErrSessionEnded) {
		return Failure, err
	}
	if err != nil {
		// flags stay as they were; the next upload repeats the same rows
		return Retry, fmt.Errorf("%w: %w", ErrLocalStorage, err)
	}

	w.log.Info(ctx, "delta acknowledged", "cleared", ack.Cleared, "purged", ack.Purged, "stale", ack.Stale)
	return Success, nil
}
