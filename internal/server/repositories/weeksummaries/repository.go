package weeksummaries

import (
	"context"

	"github.com/dmitrijs2005/sumdays/internal/wire"
)

type Repository interface {
	Upsert(ctx context.Context, userID string, items []wire.WeekSummary) error
	DeleteByKeys(ctx context.Context, userID string, startDates []string) (int64, error)
	ListByUser(ctx context.Context, userID string) ([]wire.WeekSummary, error)
}
