package memos

import (
	"context"

	"github.com/dmitrijs2005/sumdays/internal/wire"
)

type Repository interface {
	Upsert(ctx context.Context, userID string, items []wire.Memo) error
	DeleteByKeys(ctx context.Context, userID string, ids []int64) (int64, error)
	ListByUser(ctx context.Context, userID string) ([]wire.Memo, error)
}
