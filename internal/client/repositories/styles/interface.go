// Package styles persists writing style profiles in the local SQLite store.
package styles

import (
	"context"

	"github.com/dmitrijs2005/sumdays/internal/client/models"
)

type Repository interface {
	Save(ctx context.Context, s *models.UserStyle) error
	// Create fails with common.ErrorConflict when the id is taken.
	Create(ctx context.Context, s *models.UserStyle) error
	MaxID(ctx context.Context) (int64, error)
	Get(ctx context.Context, id int64) (*models.UserStyle, error)
	List(ctx context.Context) ([]*models.UserStyle, error)
	MarkDeleted(ctx context.Context, id int64) error
	SelectEdited(ctx context.Context) ([]*models.UserStyle, error)
	SelectDeleted(ctx context.Context) ([]*models.UserStyle, error)
	ClearEdited(ctx context.Context, id, revision int64) (bool, error)
	Purge(ctx context.Context, id, revision int64) (bool, error)
	DeleteAll(ctx context.Context) error
	InsertClean(ctx context.Context, s *models.UserStyle) error
}
