package dailyentries

import (
	"context"

	"github.com/dmitrijs2005/sumdays/internal/wire"
)

type Repository interface {
	Upsert(ctx context.Context, userID string, items []wire.DailyEntry) error
	DeleteByKeys(ctx context.Context, userID string, dates []string) (int64, error)
	ListByUser(ctx context.Context, userID string) ([]wire.DailyEntry, error)
}
