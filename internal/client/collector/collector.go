// Package collector reads the dirty rows of the local store into a Delta.
//
// A Delta is the snapshot the backup worker uploads and later acknowledges:
// acknowledging clears flags only for rows whose revision still equals the
// one captured here, so edits made while an upload is in flight survive.
package collector

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/sumdays/internal/client/models"
	"github.com/dmitrijs2005/sumdays/internal/client/store"
	"github.com/dmitrijs2005/sumdays/internal/wire"
)

// Delta is the set of edited rows and tombstones of all four kinds.
type Delta struct {
	Memos         []*models.Memo
	DailyEntries  []*models.DailyEntry
	Styles        []*models.UserStyle
	WeekSummaries []*models.WeekSummary

	DeletedMemos         []*models.Memo
	DeletedDailyEntries  []*models.DailyEntry
	DeletedStyles        []*models.UserStyle
	DeletedWeekSummaries []*models.WeekSummary
}

// Stats counts rows per category, for logs and the status command.
type Stats struct {
	Edited  int
	Deleted int
}

type Collector struct {
	store *store.Store
}

func New(s *store.Store) *Collector {
	return &Collector{store: s}
}

// Collect reads all kinds inside one transaction so that the delta is a
// consistent snapshot of the store.
func (c *Collector) Collect(ctx context.Context) (*Delta, error) {
	d := &Delta{}
	err := c.store.WithTx(ctx, func(ctx context.Context, r *store.Repositories) error {
		return collect(ctx, r, d)
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func collect(ctx context.Context, r *store.Repositories, d *Delta) (err error) {
	if d.Memos, err = r.Memos.SelectEdited(ctx); err != nil {
		return fmt.Errorf("collect memos: %w", err)
	}
	if d.DeletedMemos, err = r.Memos.SelectDeleted(ctx); err != nil {
		return fmt.Errorf("collect deleted memos: %w", err)
	}
	if d.DailyEntries, err = r.DailyEntries.SelectEdited(ctx); err != nil {
		return fmt.Errorf("collect daily entries: %w", err)
	}
	if d.DeletedDailyEntries, err = r.DailyEntries.SelectDeleted(ctx); err != nil {
		return fmt.Errorf("collect deleted daily entries: %w", err)
	}
	if d.Styles, err = r.Styles.SelectEdited(ctx); err != nil {
		return fmt.Errorf("collect styles: %w", err)
	}
	if d.DeletedStyles, err = r.Styles.SelectDeleted(ctx); err != nil {
		return fmt.Errorf("collect deleted styles: %w", err)
	}
	if d.WeekSummaries, err = r.WeekSummaries.SelectEdited(ctx); err != nil {
		return fmt.Errorf("collect week summaries: %w", err)
	}
	if d.DeletedWeekSummaries, err = r.WeekSummaries.SelectDeleted(ctx); err != nil {
		return fmt.Errorf("collect deleted week summaries: %w", err)
	}
	return nil
}

func (d *Delta) Stats() Stats {
	if d == nil {
		return Stats{}
	}
	return Stats{
		Edited:  len(d.Memos) + len(d.DailyEntries) + len(d.Styles) + len(d.WeekSummaries),
		Deleted: len(d.DeletedMemos) + len(d.DeletedDailyEntries) + len(d.DeletedStyles) + len(d.DeletedWeekSummaries),
	}
}

func (d *Delta) IsEmpty() bool {
	s := d.Stats()
	return s.Edited == 0 && s.Deleted == 0
}

// Request converts the delta to the wire format. Kinds without rows and
// sections without kinds are omitted.
func (d *Delta) Request() *wire.SyncRequest {
	var del wire.DeletedSection
	for _, m := range d.DeletedMemos {
		del.Memo = append(del.Memo, m.ID)
	}
	for _, e := range d.DeletedDailyEntries {
		del.DailyEntry = append(del.DailyEntry, e.Date)
	}
	for _, s := range d.DeletedStyles {
		del.UserStyle = append(del.UserStyle, s.StyleID)
	}
	for _, w := range d.DeletedWeekSummaries {
		del.WeekSummary = append(del.WeekSummary, w.StartDate)
	}

	var ed wire.EditedSection
	for _, m := range d.Memos {
		ed.Memo = append(ed.Memo, m.ToWire())
	}
	for _, e := range d.DailyEntries {
		ed.DailyEntry = append(ed.DailyEntry, e.ToWire())
	}
	for _, s := range d.Styles {
		ed.UserStyle = append(ed.UserStyle, s.ToWire())
	}
	for _, w := range d.WeekSummaries {
		ed.WeekSummary = append(ed.WeekSummary, w.ToWire())
	}

	return wire.NewSyncRequest(del, ed)
}

// Ack records that the server accepted the delta: edited flags are cleared
// and tombstones purged, each only when the row is still at the captured
// revision. Rows that moved on are left dirty and counted as Stale.
func (d *Delta) Ack(ctx context.Context, r *store.Repositories) (AckStats, error) {
	var st AckStats

	count := func(ok bool, err error, hit *int) error {
		if err != nil {
			return err
		}
		if ok {
			*hit++
		} else {
			st.Stale++
		}
		return nil
	}

	for _, m := range d.Memos {
		ok, err := r.Memos.ClearEdited(ctx, m.ID, m.Revision)
		if err := count(ok, err, &st.Cleared); err != nil {
			return st, err
		}
	}
	for _, e := range d.DailyEntries {
		ok, err := r.DailyEntries.ClearEdited(ctx, e.Date, e.Revision)
		if err := count(ok, err, &st.Cleared); err != nil {
			return st, err
		}
	}
	for _, s := range d.Styles {
		ok, err := r.Styles.ClearEdited(ctx, s.StyleID, s.Revision)
		if err := count(ok, err, &st.Cleared); err != nil {
			return st, err
		}
	}
	for _, w := range d.WeekSummaries {
		ok, err := r.WeekSummaries.ClearEdited(ctx, w.StartDate, w.Revision)
		if err := count(ok, err, &st.Cleared); err != nil {
			return st, err
		}
	}

	for _, m := range d.DeletedMemos {
		ok, err := r.Memos.Purge(ctx, m.ID, m.Revision)
		if err := count(ok, err, &st.Purged); err != nil {
			return st, err
		}
	}
	for _, e := range d.DeletedDailyEntries {
		ok, err := r.DailyEntries.Purge(ctx, e.Date, e.Revision)
		if err := count(ok, err, &st.Purged); err != nil {
			return st, err
		}
	}
	for _, s := range d.DeletedStyles {
		ok, err := r.Styles.Purge(ctx, s.StyleID, s.Revision)
		if err := count(ok, err, &st.Purged); err != nil {
			return st, err
		}
	}
	for _, w := range d.DeletedWeekSummaries {
		ok, err := r.WeekSummaries.Purge(ctx, w.StartDate, w.Revision)
		if err := count(ok, err, &st.Purged); err != nil {
			return st, err
		}
	}

	return st, nil
}

// AckStats reports the outcome of Ack.
type AckStats struct {
	Cleared int
	Purged  int
	Stale   int
}
