package memos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/sumdays/internal/client/models"
	"github.com/dmitrijs2005/sumdays/internal/common"
	"github.com/dmitrijs2005/sumdays/internal/dbx"
)

const columns = `id, content, timestamp, date, memo_order, type, edited, deleted, revision`

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*models.Memo, error) {
	m := &models.Memo{}
	if err := s.Scan(&m.ID, &m.Content, &m.Timestamp, &m.Date, &m.Order, &m.Type,
		&m.Edited, &m.Deleted, &m.Revision); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *SQLiteRepository) query(ctx context.Context, query string, args ...any) ([]*models.Memo, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select memos: %w", err)
	}
	defer rows.Close()

	var result []*models.Memo
	for rows.Next() {
		m, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan memo: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate memos: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, m *models.Memo) error {
	query := `INSERT INTO memos (id, content, timestamp, date, memo_order, type, edited, deleted, revision)
		VALUES (?, ?, ?, ?, ?, ?, 1, 0, 1)
		ON CONFLICT(id) DO UPDATE SET content = excluded.content,
			timestamp = excluded.timestamp,
			date = excluded.date,
			memo_order = excluded.memo_order,
			type = excluded.type,
			edited = 1,
			deleted = 0,
			revision = memos.revision + 1
		RETURNING revision`

	err := r.db.QueryRowContext(ctx, query, m.ID, m.Content, m.Timestamp, m.Date, m.Order, m.Type).Scan(&m.Revision)
	if err != nil {
		return fmt.Errorf("failed to upsert memo: %w", err)
	}
	m.Edited, m.Deleted = true, false
	return nil
}

func (r *SQLiteRepository) Create(ctx context.Context, m *models.Memo) error {
	query := `INSERT INTO memos (id, content, timestamp, date, memo_order, type, edited, deleted, revision)
		VALUES (?, ?, ?, ?, ?, ?, 1, 0, 1)
		ON CONFLICT(id) DO NOTHING`

	res, err := r.db.ExecContext(ctx, query, m.ID, m.Content, m.Timestamp, m.Date, m.Order, m.Type)
	if err != nil {
		return fmt.Errorf("failed to insert memo: %w", err)
	}
	ok, err := dbx.Affected(res)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("memo %d: %w", m.ID, common.ErrorConflict)
	}
	m.Edited, m.Deleted, m.Revision = true, false, 1
	return nil
}

func (r *SQLiteRepository) MaxID(ctx context.Context) (int64, error) {
	var id int64
	if err := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) FROM memos`).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to read max memo id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id int64) (*models.Memo, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM memos WHERE id = ? AND deleted = 0`, id)
	m, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get memo %d: %w", id, err)
	}
	return m, nil
}

func (r *SQLiteRepository) ListByDate(ctx context.Context, date string) ([]*models.Memo, error) {
	return r.query(ctx, `SELECT `+columns+` FROM memos WHERE date = ? AND deleted = 0 ORDER BY memo_order, id`, date)
}

func (r *SQLiteRepository) MarkDeleted(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE memos SET deleted = 1, edited = 1, revision = revision + 1 WHERE id = ? AND deleted = 0`, id)
	if err != nil {
		return fmt.Errorf("failed to delete memo: %w", err)
	}
	ok, err := dbx.Affected(res)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLiteRepository) SelectEdited(ctx context.Context) ([]*models.Memo, error) {
	return r.query(ctx, `SELECT `+columns+` FROM memos WHERE edited = 1 AND deleted = 0 ORDER BY id`)
}

func (r *SQLiteRepository) SelectDeleted(ctx context.Context) ([]*models.Memo, error) {
	return r.query(ctx, `SELECT `+columns+` FROM memos WHERE deleted = 1 ORDER BY id`)
}

func (r *SQLiteRepository) ClearEdited(ctx context.Context, id, revision int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE memos SET edited = 0 WHERE id = ? AND revision = ? AND deleted = 0`, id, revision)
	if err != nil {
		return false, fmt.Errorf("failed to clear memo flag: %w", err)
	}
	return dbx.Affected(res)
}

func (r *SQLiteRepository) Purge(ctx context.Context, id, revision int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM memos WHERE id = ? AND revision = ? AND deleted = 1`, id, revision)
	if err != nil {
		return false, fmt.Errorf("failed to purge memo: %w", err)
	}
	return dbx.Affected(res)
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM memos`); err != nil {
		return fmt.Errorf("failed to clear memos: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) InsertClean(ctx context.Context, m *models.Memo) error {
	query := `INSERT OR REPLACE INTO memos (` + columns + `) VALUES (?, ?, ?, ?, ?, ?, 0, 0, 0)`
	if _, err := r.db.ExecContext(ctx, query, m.ID, m.Content, m.Timestamp, m.Date, m.Order, m.Type); err != nil {
		return fmt.Errorf("failed to insert memo: %w", err)
	}
	m.Dirty = models.Dirty{}
	return nil
}
