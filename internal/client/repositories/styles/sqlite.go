package styles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/sumdays/internal/client/models"
	"github.com/dmitrijs2005/sumdays/internal/common"
	"github.com/dmitrijs2005/sumdays/internal/dbx"
	"github.com/dmitrijs2005/sumdays/internal/wire"
)

const columns = `style_id, style_name, style_vector, style_examples, style_prompt, sample_diary,
	edited, deleted, revision`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

// nested values are kept as JSON text columns
func scan(s scanner) (*models.UserStyle, error) {
	st := &models.UserStyle{}
	var vector, examples, prompt string
	if err := s.Scan(&st.StyleID, &st.StyleName, &vector, &examples, &prompt, &st.SampleDiary,
		&st.Edited, &st.Deleted, &st.Revision); err != nil {
		return nil, err
	}
	st.StyleVector = wire.DecodeFloats([]byte(vector))
	st.StyleExamples = wire.DecodeStrings([]byte(examples))
	st.StylePrompt = wire.DecodeStylePrompt([]byte(prompt))
	return st, nil
}

func encode(s *models.UserStyle) (vector, examples, prompt string) {
	p := s.ToWire()
	return string(p.StyleVector), string(p.StyleExamples), string(p.StylePrompt)
}

func (r *SQLiteRepository) query(ctx context.Context, query string, args ...any) ([]*models.UserStyle, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select styles: %w", err)
	}
	defer rows.Close()

	var result []*models.UserStyle
	for rows.Next() {
		s, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan style: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate styles: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, s *models.UserStyle) error {
	vector, examples, prompt := encode(s)

	query := `INSERT INTO user_styles (style_id, style_name, style_vector, style_examples, style_prompt, sample_diary,
			edited, deleted, revision)
		VALUES (?, ?, ?, ?, ?, ?, 1, 0, 1)
		ON CONFLICT(style_id) DO UPDATE SET style_name = excluded.style_name,
			style_vector = excluded.style_vector,
			style_examples = excluded.style_examples,
			style_prompt = excluded.style_prompt,
			sample_diary = excluded.sample_diary,
			edited = 1,
			deleted = 0,
			revision = user_styles.revision + 1
		RETURNING revision`

	err := r.db.QueryRowContext(ctx, query, s.StyleID, s.StyleName, vector, examples, prompt, s.SampleDiary).
		Scan(&s.Revision)
	if err != nil {
		return fmt.Errorf("failed to upsert style: %w", err)
	}
	s.Edited, s.Deleted = true, false
	return nil
}

func (r *SQLiteRepository) Create(ctx context.Context, s *models.UserStyle) error {
	vector, examples, prompt := encode(s)

	query := `INSERT INTO user_styles (style_id, style_name, style_vector, style_examples, style_prompt, sample_diary,
			edited, deleted, revision)
		VALUES (?, ?, ?, ?, ?, ?, 1, 0, 1)
		ON CONFLICT(style_id) DO NOTHING`

	res, err := r.db.ExecContext(ctx, query, s.StyleID, s.StyleName, vector, examples, prompt, s.SampleDiary)
	if err != nil {
		return fmt.Errorf("failed to insert style: %w", err)
	}
	ok, err := dbx.Affected(res)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("style %d: %w", s.StyleID, common.ErrorConflict)
	}
	s.Edited, s.Deleted, s.Revision = true, false, 1
	return nil
}

func (r *SQLiteRepository) MaxID(ctx context.Context) (int64, error) {
	var id int64
	if err := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(style_id), 0) FROM user_styles`).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to read max style id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id int64) (*models.UserStyle, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM user_styles WHERE style_id = ? AND deleted = 0`, id)
	s, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get style %d: %w", id, err)
	}
	return s, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*models.UserStyle, error) {
	return r.query(ctx, `SELECT `+columns+` FROM user_styles WHERE deleted = 0 ORDER BY style_id`)
}

func (r *SQLiteRepository) MarkDeleted(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE user_styles SET deleted = 1, edited = 1, revision = revision + 1 WHERE style_id = ? AND deleted = 0`, id)
	if err != nil {
		return fmt.Errorf("failed to delete style: %w", err)
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

func (r *SQLiteRepository) SelectEdited(ctx context.Context) ([]*models.UserStyle, error) {
	return r.query(ctx, `SELECT `+columns+` FROM user_styles WHERE edited = 1 AND deleted = 0 ORDER BY style_id`)
}

func (r *SQLiteRepository) SelectDeleted(ctx context.Context) ([]*models.UserStyle, error) {
	return r.query(ctx, `SELECT `+columns+` FROM user_styles WHERE deleted = 1 ORDER BY style_id`)
}

func (r *SQLiteRepository) ClearEdited(ctx context.Context, id, revision int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE user_styles SET edited = 0 WHERE style_id = ? AND revision = ? AND deleted = 0`, id, revision)
	if err != nil {
		return false, fmt.Errorf("failed to clear style flag: %w", err)
	}
	return dbx.Affected(res)
}

func (r *SQLiteRepository) Purge(ctx context.Context, id, revision int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM user_styles WHERE style_id = ? AND revision = ? AND deleted = 1`, id, revision)
	if err != nil {
		return false, fmt.Errorf("failed to purge style: %w", err)
	}
	return dbx.Affected(res)
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_styles`); err != nil {
		return fmt.Errorf("failed to clear styles: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) InsertClean(ctx context.Context, s *models.UserStyle) error {
	vector, examples, prompt := encode(s)
	query := `INSERT OR REPLACE INTO user_styles (` + columns + `) VALUES (?, ?, ?, ?, ?, ?, 0, 0, 0)`
	if _, err := r.db.ExecContext(ctx, query, s.StyleID, s.StyleName, vector, examples, prompt, s.SampleDiary); err != nil {
		return fmt.Errorf("failed to insert style: %w", err)
	}
	s.Dirty = models.Dirty{}
	return nil
}
