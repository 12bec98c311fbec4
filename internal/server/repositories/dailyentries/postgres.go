// Package dailyentries persists synced diary entries in PostgreSQL, keyed by
// (user, date).
package dailyentries

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

// Upsert inserts or fully overwrites each entry; absent optional fields
// become NULL.
func (r *PostgresRepository) Upsert(ctx context.Context, userID string, items []wire.DailyEntry) error {
	query := `
		INSERT INTO daily_entries (user_id, date, diary, keywords, ai_comment, emotion_score, emotion_icon, theme_icon, photo_urls)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, date)
		DO UPDATE SET
			diary = EXCLUDED.diary,
			keywords = EXCLUDED.keywords,
			ai_comment = EXCLUDED.ai_comment,
			emotion_score = EXCLUDED.emotion_score,
			emotion_icon = EXCLUDED.emotion_icon,
			theme_icon = EXCLUDED.theme_icon,
			photo_urls = EXCLUDED.photo_urls,
			updated_at = now()
	`
	for _, e := range items {
		if _, err := r.db.ExecContext(ctx, query,
			userID, e.Date, e.Diary, e.Keywords, e.AIComment, e.EmotionScore, e.EmotionIcon, e.ThemeIcon,
			dbx.TextArg(e.PhotoURLs)); err != nil {
			return fmt.Errorf("db error: upsert daily entry %s: %w", e.Date, err)
		}
	}
	return nil
}

func (r *PostgresRepository) DeleteByKeys(ctx context.Context, userID string, dates []string) (int64, error) {
	if len(dates) == 0 {
		return 0, nil
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM daily_entries WHERE user_id = $1 AND date = ANY($2)`, userID, dates)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return res.RowsAffected()
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]wire.DailyEntry, error) {
	query := `
		SELECT date, diary, keywords, ai_comment, emotion_score, emotion_icon, theme_icon, photo_urls
		FROM daily_entries
		WHERE user_id = $1
		ORDER BY date
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select daily entries: %w", err)
	}
	defer rows.Close()

	result := []wire.DailyEntry{}
	for rows.Next() {
		var (
			e      wire.DailyEntry
			photos sql.NullString
		)
		if err := rows.Scan(&e.Date, &e.Diary, &e.Keywords, &e.AIComment, &e.EmotionScore,
			&e.EmotionIcon, &e.ThemeIcon, &photos); err != nil {
			return nil, err
		}
		e.PhotoURLs = dbx.TextBytes(photos)
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
