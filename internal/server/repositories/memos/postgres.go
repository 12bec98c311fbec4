// Package memos persists synced memos in PostgreSQL, keyed by (user, room_id).
package memos

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/sumdays/internal/dbx"
	"github.com/dmitrijs2005/sumdays/internal/wire"
)

// PostgresRepository implements memo storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert inserts or fully overwrites each memo of userID.
func (r *PostgresRepository) Upsert(ctx context.Context, userID string, items []wire.Memo) error {
	query := `
		INSERT INTO memos (user_id, room_id, content, timestamp, date, memo_order, type)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, room_id)
		DO UPDATE SET
			content = EXCLUDED.content,
			timestamp = EXCLUDED.timestamp,
			date = EXCLUDED.date,
			memo_order = EXCLUDED.memo_order,
			type = EXCLUDED.type,
			updated_at = now()
	`
	for _, m := range items {
		if _, err := r.db.ExecContext(ctx, query,
			userID, m.ID, m.Content, m.Timestamp, m.Date, m.Order, m.Type); err != nil {
			return fmt.Errorf("db error: upsert memo %d: %w", m.ID, err)
		}
	}
	return nil
}

// DeleteByKeys removes the listed memos of userID. Unknown ids are ignored.
func (r *PostgresRepository) DeleteByKeys(ctx context.Context, userID string, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM memos WHERE user_id = $1 AND room_id = ANY($2)`, userID, ids)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return res.RowsAffected()
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]wire.Memo, error) {
	query := `
		SELECT room_id, content, timestamp, date, memo_order, type FROM memos
		WHERE user_id = $1
		ORDER BY date, memo_order, room_id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select memos: %w", err)
	}
	defer rows.Close()

	result := []wire.Memo{}
	for rows.Next() {
		var m wire.Memo
		if err := rows.Scan(&m.ID, &m.Content, &m.Timestamp, &m.Date, &m.Order, &m.Type); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
