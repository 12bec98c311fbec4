// Package users persists sync account owners in PostgreSQL.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/sumdays/internal/common"
	"github.com/dmitrijs2005/sumdays/internal/dbx"
	"github.com/dmitrijs2005/sumdays/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const touchUser = `
	UPDATE users SET last_seen_at = now()
	WHERE id = $1`

// Touch bumps last_seen_at and reports whether the user exists.
func (r *PostgresRepository) Touch(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, touchUser, id)
	if err != nil {
		return false, fmt.Errorf("db error: touch user %s: %w", id, err)
	}
	return dbx.Affected(res)
}

const insertUser = `
	INSERT INTO users (id, login, password_hash)
	VALUES ($1, $2, $3)
	ON CONFLICT (id) DO NOTHING`

// Create inserts user. It reports false when a row with the same id already
// exists, which then keeps its login and password hash.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (bool, error) {
	res, err := r.db.ExecContext(ctx, insertUser, user.ID, user.Login, user.PasswordHash)
	if err != nil {
		return false, fmt.Errorf("db error: create user %s: %w", user.ID, err)
	}
	return dbx.Affected(res)
}

const selectUser = `
	SELECT id, login, password_hash, created_at, last_seen_at
	FROM users
	WHERE id = $1`

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, selectUser, id).
		Scan(&u.ID, &u.Login, &u.PasswordHash, &u.CreatedAt, &u.LastSeenAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, common.ErrorNotFound
	case err != nil:
		return nil, fmt.Errorf("db error: load user %s: %w", id, err)
	}
	return &u, nil
}
