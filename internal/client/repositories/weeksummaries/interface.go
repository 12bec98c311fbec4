// Package weeksummaries persists weekly summaries in the local SQLite store.
package weeksummaries

import (
	"context"

	"github.com/dmitrijs2005/sumdays/internal/client/models"
)

type Repository interface {
	Save(ctx context.Context, w *models.WeekSummary) error
	Get(ctx context.Context, startDate string) (*models.WeekSummary, error)
	List(ctx context.Context) ([]*models.WeekSummary, error)
	MarkDeleted(ctx context.Context, startDate string) error
	SelectEdited(ctx context.Context) ([]*models.WeekSummary, error)
	SelectDeleted(ctx context.Context) ([]*models.WeekSummary, error)
	ClearEdited(ctx context.Context, startDate string, revision int64) (bool, error)
	Purge(ctx context.Context, startDate string, revision int64) (bool, error)
	DeleteAll(ctx context.Context) error
	InsertClean(ctx context.Context, w *models.WeekSummary) error
}
