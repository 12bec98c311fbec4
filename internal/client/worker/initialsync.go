package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/sumdays/internal/client/models"
	"github.com/dmitrijs2005/sumdays/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/sumdays/internal/client/store"
	"github.com/dmitrijs2005/sumdays/internal/logging"
	"github.com/dmitrijs2005/sumdays/internal/wire"
)

// InitialSyncName identifies the one-shot download run after login.
const InitialSyncName = "initial_sync"

// Fetcher downloads the complete remote dataset.
type Fetcher interface {
	Fetch(ctx context.Context, token string) (*wire.FetchResponse, error)
}

// InitialSyncWorker replaces the local store with the server copy.
type InitialSyncWorker struct {
	sessions Sessions
	store    *store.Store
	client   Fetcher
	log      logging.Logger
	now      func() time.Time
}

func NewInitialSyncWorker(sessions Sessions, s *store.Store, c Fetcher, log logging.Logger) *InitialSyncWorker {
	return &InitialSyncWorker{
		sessions: sessions,
		store:    s,
		client:   c,
		log:      log.With("module", "initial_sync"),
		now:      time.Now,
	}
}

func (w *InitialSyncWorker) Run(ctx context.Context) (Result, error) {
	lease, ok := w.sessions.Current()
	if !ok {
		return Failure, ErrAuthMissing
	}

	callCtx, cancel := callContext(ctx, lease)
	data, err := w.client.Fetch(callCtx, lease.Token)
	cancel()

	if lease.Ended() {
		return Failure, ErrSessionEnded
	}
	if err != nil {
		w.log.Warn(ctx, "fetch failed", "error", err)
		return Retry, err
	}

	err = w.store.WithTx(ctx, func(ctx context.Context, r *store.Repositories) error {
		if lease.Ended() {
			return ErrSessionEnded
		}
		return replace(ctx, r, data, w.now())
	})
	if err != nil {
		return Failure, fmt.Errorf("%w: %w", ErrLocalStorage, err)
	}

	w.log.Info(ctx, "local store replaced",
		"memos", len(data.Memo), "daily_entries", len(data.DailyEntry),
		"styles", len(data.UserStyle), "week_summaries", len(data.WeekSummary))
	return Success, nil
}

// replace clears every table and inserts the fetched rows with clean flags.
// It runs inside one transaction, so a failure leaves the old data intact.
func replace(ctx context.Context, r *store.Repositories, data *wire.FetchResponse, now time.Time) error {
	if err := r.Memos.DeleteAll(ctx); err != nil {
		return err
	}
	if err := r.DailyEntries.DeleteAll(ctx); err != nil {
		return err
	}
	if err := r.Styles.DeleteAll(ctx); err != nil {
		return err
	}
	if err := r.WeekSummaries.DeleteAll(ctx); err != nil {
		return err
	}

	for _, p := range data.Memo {
		if err := r.Memos.InsertClean(ctx, models.MemoFromWire(p)); err != nil {
			return err
		}
	}
	for _, p := range data.DailyEntry {
		if err := r.DailyEntries.InsertClean(ctx, models.DailyEntryFromWire(p)); err != nil {
			return err
		}
	}
	for _, p := range data.UserStyle {
		if err := r.Styles.InsertClean(ctx, models.UserStyleFromWire(p)); err != nil {
			return err
		}
	}
	for _, p := range data.WeekSummary {
		if err := r.WeekSummaries.InsertClean(ctx, models.WeekSummaryFromWire(p)); err != nil {
			return err
		}
	}

	if err := r.Metadata.SetTime(ctx, metadata.KeyLastResync, now); err != nil {
		return err
	}
	if err := r.Metadata.SetTime(ctx, metadata.KeyLastSync, now); err != nil {
		return err
	}
	return r.Metadata.Delete(ctx, metadata.KeyResyncPending)
}

// RequireResync blocks uploads until the next successful initial sync.
func RequireResync(ctx context.Context, r metadata.Repository) error {
	if err := r.SetString(ctx, metadata.KeyResyncPending, "1"); err != nil {
		return fmt.Errorf("%w: %w", ErrLocalStorage, err)
	}
	return nil
}

func ResyncPending(ctx context.Context, r metadata.Repository) (bool, error) {
	v, err := r.GetString(ctx, metadata.KeyResyncPending)
	if err != nil {
		return false, err
	}
	return v != "", nil
}
