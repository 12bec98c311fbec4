package weeksummaries

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

const columns = `start_date, end_date, diary_count, emotion_analysis, highlights, insights, summary,
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

func scan(s scanner) (*models.WeekSummary, error) {
	w := &models.WeekSummary{}
	var analysis, highlights, insights, summary string
	if err := s.Scan(&w.StartDate, &w.EndDate, &w.DiaryCount, &analysis, &highlights, &insights, &summary,
		&w.Edited, &w.Deleted, &w.Revision); err != nil {
		return nil, err
	}
	w.EmotionAnalysis = wire.DecodeEmotionAnalysis([]byte(analysis))
	w.Highlights = wire.DecodeHighlights([]byte(highlights))
	w.Insights = wire.DecodeInsights([]byte(insights))
	w.Summary = wire.DecodeSummaryDetails([]byte(summary))
	return w, nil
}

func encode(w *models.WeekSummary) []any {
	p := w.ToWire()
	return []any{p.StartDate, p.EndDate, p.DiaryCount,
		string(p.EmotionAnalysis), string(p.Highlights), string(p.Insights), string(p.Summary)}
}

func (r *SQLiteRepository) query(ctx context.Context, query string, args ...any) ([]*models.WeekSummary, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select week summaries: %w", err)
	}
	defer rows.Close()

	var result []*models.WeekSummary
	for rows.Next() {
		w, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan week summary: %w", err)
		}
		result = append(result, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate week summaries: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, w *models.WeekSummary) error {
	query := `INSERT INTO week_summaries (start_date, end_date, diary_count, emotion_analysis, highlights, insights,
			summary, edited, deleted, revision)
		VALUES (?, ?, ?, ?, ?, ?, ?, 1, 0, 1)
		ON CONFLICT(start_date) DO UPDATE SET end_date = excluded.end_date,
			diary_count = excluded.diary_count,
			emotion_analysis = excluded.emotion_analysis,
			highlights = excluded.highlights,
			insights = excluded.insights,
			summary = excluded.summary,
			edited = 1,
			deleted = 0,
			revision = week_summaries.revision + 1
		RETURNING revision`

	if err := r.db.QueryRowContext(ctx, query, encode(w)...).Scan(&w.Revision); err != nil {
		return fmt.Errorf("failed to upsert week summary: %w", err)
	}
	w.Edited, w.Deleted = true, false
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, startDate string) (*models.WeekSummary, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+columns+` FROM week_summaries WHERE start_date = ? AND deleted = 0`, startDate)
	w, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get week summary %s: %w", startDate, err)
	}
	return w, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*models.WeekSummary, error) {
	return r.query(ctx, `SELECT `+columns+` FROM week_summaries WHERE deleted = 0 ORDER BY start_date`)
}

func (r *SQLiteRepository) MarkDeleted(ctx context.Context, startDate string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE week_summaries SET deleted = 1, edited = 1, revision = revision + 1
		 WHERE start_date = ? AND deleted = 0`, startDate)
	if err != nil {
		return fmt.Errorf("failed to delete week summary: %w", err)
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

func (r *SQLiteRepository) SelectEdited(ctx context.Context) ([]*models.WeekSummary, error) {
	return r.query(ctx, `SELECT `+columns+` FROM week_summaries WHERE edited = 1 AND deleted = 0 ORDER BY start_date`)
}

func (r *SQLiteRepository) SelectDeleted(ctx context.Context) ([]*models.WeekSummary, error) {
	return r.query(ctx, `SELECT `+columns+` FROM week_summaries WHERE deleted = 1 ORDER BY start_date`)
}

func (r *SQLiteRepository) ClearEdited(ctx context.Context, startDate string, revision int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE week_summaries SET edited = 0 WHERE start_date = ? AND revision = ? AND deleted = 0`,
		startDate, revision)
	if err != nil {
		return false, fmt.Errorf("failed to clear week summary flag: %w", err)
	}
	return dbx.Affected(res)
}

func (r *SQLiteRepository) Purge(ctx context.Context, startDate string, revision int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM week_summaries WHERE start_date = ? AND revision = ? AND deleted = 1`, startDate, revision)
	if err != nil {
		return false, fmt.Errorf("failed to purge week summary: %w", err)
	}
	return dbx.Affected(res)
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM week_summaries`); err != nil {
		return fmt.Errorf("failed to clear week summaries: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) InsertClean(ctx context.Context, w *models.WeekSummary) error {
	query := `INSERT OR REPLACE INTO week_summaries (` + columns + `) VALUES (?, ?, ?, ?, ?, ?, ?, 0, 0, 0)`
	if _, err := r.db.ExecContext(ctx, query, encode(w)...); err != nil {
		return fmt.Errorf("failed to insert week summary: %w", err)
	}
	w.Dirty = models.Dirty{}
	return nil
}
