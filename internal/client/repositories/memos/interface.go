// Package memos persists memos in the local SQLite store together with their
// sync flags.
package memos

import (
	"context"

	"github.com/dmitrijs2005/sumdays/internal/client/models"
)

// Repository is the dirty-tracked memo table.
type Repository interface {
	// Save creates or updates a memo on behalf of the user: the row becomes
	// edited, stops being a tombstone and gets a new revision.
	Save(ctx context.Context, m *models.Memo) error

	// Create inserts a new memo and fails with common.ErrorConflict when the
	// id is taken, tombstones included.
	Create(ctx context.Context, m *models.Memo) error

	// MaxID returns the largest id in the table, tombstones included, or 0.
	MaxID(ctx context.Context) (int64, error)

	// Get returns a live memo or common.ErrorNotFound.
	Get(ctx context.Context, id int64) (*models.Memo, error)

	// ListByDate returns live memos of a day ordered by memo_order.
	ListByDate(ctx context.Context, date string) ([]*models.Memo, error)

	// MarkDeleted turns a live memo into a tombstone.
	MarkDeleted(ctx context.Context, id int64) error

	// SelectEdited returns rows with edited=1 that are not tombstones.
	SelectEdited(ctx context.Context) ([]*models.Memo, error)

	// SelectDeleted returns tombstones.
	SelectDeleted(ctx context.Context) ([]*models.Memo, error)

	// ClearEdited resets the edited flag if the row is still at revision.
	ClearEdited(ctx context.Context, id, revision int64) (bool, error)

	// Purge physically removes a tombstone if it is still at revision.
	Purge(ctx context.Context, id, revision int64) (bool, error)

	// DeleteAll empties the table.
	DeleteAll(ctx context.Context) error

	// InsertClean stores a server copy with clean flags.
	InsertClean(ctx context.Context, m *models.Memo) error
}
