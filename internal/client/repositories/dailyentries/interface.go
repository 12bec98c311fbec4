// Package dailyentries persists diary entries, one per date, in the local
// SQLite store together with their sync flags.
package dailyentries

import (
	"context"

	"github.com/dmitrijs2005/sumdays/internal/client/models"
)

// Repository is the dirty-tracked diary table. Semantics match the other
// dirty-tracked repositories: Save marks edited, MarkDeleted leaves a
// tombstone, ClearEdited/Purge act only on the given revision.
type Repository interface {
	Save(ctx context.Context, e *models.DailyEntry) error
	Get(ctx context.Context, date string) (*models.DailyEntry, error)
	List(ctx context.Context) ([]*models.DailyEntry, error)
	MarkDeleted(ctx context.Context, date string) error
	SelectEdited(ctx context.Context) ([]*models.DailyEntry, error)
	SelectDeleted(ctx context.Context) ([]*models.DailyEntry, error)
	ClearEdited(ctx context.Context, date string, revision int64) (bool, error)
	Purge(ctx context.Context, date string, revision int64) (bool, error)
	DeleteAll(ctx context.Context) error
	InsertClean(ctx context.Context, e *models.DailyEntry) error
}
