// Package weeksummaries persists weekly summaries in PostgreSQL, keyed by
// (user, start_date).
package weeksummaries

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

func (r *PostgresRepository) Upsert(ctx context.Context, userID string, items []wire.WeekSummary) error {
	query := `
		INSERT INTO week_summaries (user_id, start_date, end_date, diary_count, emotion_analysis, highlights, insights, summary)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, start_date)
		DO UPDATE SET
			end_date = EXCLUDED.end_date,
			diary_count = EXCLUDED.diary_count,
			emotion_analysis = EXCLUDED.emotion_analysis,
			highlights = EXCLUDED.highlights,
			insights = EXCLUDED.insights,
			summary = EXCLUDED.summary,
			updated_at = now()
	`
	for _, w := range items {
		if _, err := r.db.ExecContext(ctx, query,
			userID, w.StartDate, w.EndDate, w.DiaryCount,
			dbx.TextArg(w.EmotionAnalysis), dbx.TextArg(w.Highlights), dbx.TextArg(w.Insights), dbx.TextArg(w.Summary),
		); err != nil {
			return fmt.Errorf("db error: upsert week summary %s: %w", w.StartDate, err)
		}
	}
	return nil
}

func (r *PostgresRepository) DeleteByKeys(ctx context.Context, userID string, startDates []string) (int64, error) {
	if len(startDates) == 0 {
		return 0, nil
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM week_summaries WHERE user_id = $1 AND start_date = ANY($2)`, userID, startDates)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return res.RowsAffected()
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]wire.WeekSummary, error) {
	query := `
		SELECT start_date, end_date, diary_count, emotion_analysis, highlights, insights, summary
		FROM week_summaries
		WHERE user_id = $1
		ORDER BY start_date
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select week summaries: %w", err)
	}
	defer rows.Close()

	result := []wire.WeekSummary{}
	for rows.Next() {
		var (
			w                                      wire.WeekSummary
			emotion, highlights, insights, summary sql.NullString
		)
		if err := rows.Scan(&w.StartDate, &w.EndDate, &w.DiaryCount, &emotion, &highlights, &insights, &summary); err != nil {
			return nil, err
		}
		w.EmotionAnalysis = dbx.TextBytes(emotion)
		w.Highlights = dbx.TextBytes(highlights)
		w.Insights = dbx.TextBytes(insights)
		w.Summary = dbx.TextBytes(summary)
		result = append(result, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
