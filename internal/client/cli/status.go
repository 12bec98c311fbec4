package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/sumdays/internal/client/client"
	"github.com/dmitrijs2005/sumdays/internal/client/worker"
)

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format(time.DateTime)
}

func (a *App) Status(ctx context.Context) error {
	st, err := a.sync.Status(ctx)
	if err != nil {
		return a.fail(err)
	}

	fmt.Fprintf(a.out, "Mode:          %s\n", a.Mode())
	fmt.Fprintf(a.out, "Pending:       %d edited, %d deleted\n", st.Pending.Edited, st.Pending.Deleted)
	fmt.Fprintf(a.out, "Last sync:     %s\n", formatTime(st.LastSync))
	fmt.Fprintf(a.out, "Last resync:   %s\n", formatTime(st.LastResync))
	switch {
	case st.ResyncPending:
		fmt.Fprintln(a.out, "Backup:        waiting for initial sync")
	case st.BackupQueue:
		fmt.Fprintln(a.out, "Backup:        scheduled")
	default:
		fmt.Fprintln(a.out, "Backup:        not scheduled")
	}
	if r := st.LastBackup; r != nil {
		line := fmt.Sprintf("Last backup:   %s at %s", r.Result, formatTime(r.At))
		if r.Err != nil {
			line += fmt.Sprintf(" (%v)", r.Err)
		}
		fmt.Fprintln(a.out, line)
	}
	return nil
}

func (a *App) report(what string, res worker.Result, err error) error {
	switch {
	case err == nil:
		fmt.Fprintf(a.out, "%s: %s\n", what, res)
	case errors.Is(err, client.ErrUnavailable):
		fmt.Fprintf(a.out, "%s: server unavailable, changes are kept locally\n", what)
	case errors.Is(err, worker.ErrAuthMissing), errors.Is(err, client.ErrUnauthorized):
		fmt.Fprintf(a.out, "%s: not authorized, please login again\n", what)
	case errors.Is(err, worker.ErrResyncPending):
		fmt.Fprintf(a.out, "%s: waiting for the initial sync, run resync first\n", what)
	default:
		fmt.Fprintf(a.out, "%s: %s (%v)\n", what, res, err)
	}
	return err
}

// Sync uploads pending changes now instead of waiting for the schedule.
func (a *App) Sync(ctx context.Context) error {
	res, err := a.sync.SyncNow(ctx)
	return a.report("Sync", res, err)
}

// Resync discards the local copy and downloads everything from the server.
func (a *App) Resync(ctx context.Context) error {
	answer, err := getSimpleText(a.reader, "Local changes not yet synced will be lost. Continue? [y/N]", a.out)
	if err != nil {
		return err
	}
	if answer != "y" && answer != "Y" {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}
	res, err := a.sync.Resync(ctx)
	return a.report("Resync", res, err)
}
