package users

import (
	"context"

	"github.com/dmitrijs2005/sumdays/internal/server/models"
)

type Repository interface {
	Touch(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, user *models.User) (bool, error)
	Get(ctx context.Context, id string) (*models.User, error)
}
