// Package styles persists writing style profiles in PostgreSQL, keyed by
// (user, style_id). Vector, examples and prompt are kept as opaque JSON text.
package styles

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/sumdays/internal/dbx"
	"github.com/dmitrijs2005/sumdays/internal/wire"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, userID string, items []wire.UserStyle) error {
	query := `
		INSERT INTO user_styles (user_id, style_id, style_name, style_vector, style_examples, style_prompt, sample_diary)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, style_id)
		DO UPDATE SET
			style_name = EXCLUDED.style_name,
			style_vector = EXCLUDED.style_vector,
			style_examples = EXCLUDED.style_examples,
			style_prompt = EXCLUDED.style_prompt,
			sample_diary = EXCLUDED.sample_diary,
			updated_at = now()
	`
	for _, s := range items {
		if _, err := r.db.ExecContext(ctx, query,
			userID, s.StyleID, s.StyleName,
			dbx.TextArg(s.StyleVector), dbx.TextArg(s.StyleExamples), dbx.TextArg(s.StylePrompt),
			s.SampleDiary); err != nil {
			return fmt.Errorf("db error: upsert style %d: %w", s.StyleID, err)
		}
	}
	return nil
}

func (r *PostgresRepository) DeleteByKeys(ctx context.Context, userID string, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM user_styles WHERE user_id = $1 AND style_id = ANY($2)`, userID, ids)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return res.RowsAffected()
}

// ListByUser returns the stored rows with their blobs untouched.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]wire.UserStyle, error) {
	query := `
		SELECT style_id, style_name, style_vector, style_examples, style_prompt, sample_diary
		FROM user_styles
		WHERE user_id = $1
		ORDER BY style_id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select styles: %w", err)
	}
	defer rows.Close()

	result := []wire.UserStyle{}
	for rows.Next() {
		var (
			s                        wire.UserStyle
			vector, examples, prompt sql.NullString
		)
		if err := rows.Scan(&s.StyleID, &s.StyleName, &vector, &examples, &prompt, &s.SampleDiary); err != nil {
			return nil, err
		}
		s.StyleVector = dbx.TextBytes(vector)
		s.StyleExamples = dbx.TextBytes(examples)
		s.StylePrompt = dbx.TextBytes(prompt)
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
