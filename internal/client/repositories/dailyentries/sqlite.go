package dailyentries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/sumdays/internal/client/models"
	"github.com/dmitrijs2005/sumdays/internal/common"
	"github.com/dmitrijs2005/sumdays/internal/dbx"
	"github.com/dmitrijs2005/sumdays/internal/wire"
)

const columns = `date, diary, keywords, ai_comment, emotion_score, emotion_icon, theme_icon, photo_urls,
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

func scan(s scanner) (*models.DailyEntry, error) {
	e := &models.DailyEntry{}
	var photos string
	if err := s.Scan(&e.Date, &e.Diary, &e.Keywords, &e.AIComment, &e.EmotionScore, &e.EmotionIcon,
		&e.ThemeIcon, &photos, &e.Edited, &e.Deleted, &e.Revision); err != nil {
		return nil, err
	}
	e.PhotoURLs = wire.DecodeStrings([]byte(photos))
	return e, nil
}

func encodePhotos(urls []string) (string, error) {
	if urls == nil {
		urls = []string{}
	}
	b, err := json.Marshal(urls)
	if err != nil {
		return "", fmt.Errorf("failed to encode photo urls: %w", err)
	}
	return string(b), nil
}

func (r *SQLiteRepository) query(ctx context.Context, query string, args ...any) ([]*models.DailyEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select daily entries: %w", err)
	}
	defer rows.Close()

	var result []*models.DailyEntry
	for rows.Next() {
		e, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily entry: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate daily entries: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, e *models.DailyEntry) error {
	photos, err := encodePhotos(e.PhotoURLs)
	if err != nil {
		return err
	}

	query := `INSERT INTO daily_entries (date, diary, keywords, ai_comment, emotion_score, emotion_icon, theme_icon,
			photo_urls, edited, deleted, revision)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, 0, 1)
		ON CONFLICT(date) DO UPDATE SET diary = excluded.diary,
			keywords = excluded.keywords,
			ai_comment = excluded.ai_comment,
			emotion_score = excluded.emotion_score,
			emotion_icon = excluded.emotion_icon,
			theme_icon = excluded.theme_icon,
			photo_urls = excluded.photo_urls,
			edited = 1,
			deleted = 0,
			revision = daily_entries.revision + 1
		RETURNING revision`

	err = r.db.QueryRowContext(ctx, query, e.Date, e.Diary, e.Keywords, e.AIComment, e.EmotionScore,
		e.EmotionIcon, e.ThemeIcon, photos).Scan(&e.Revision)
	if err != nil {
		return fmt.Errorf("failed to upsert daily entry: %w", err)
	}
	e.Edited, e.Deleted = true, false
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, date string) (*models.DailyEntry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM daily_entries WHERE date = ? AND deleted = 0`, date)
	e, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get daily entry %s: %w", date, err)
	}
	return e, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*models.DailyEntry, error) {
	return r.query(ctx, `SELECT `+columns+` FROM daily_entries WHERE deleted = 0 ORDER BY date`)
}

func (r *SQLiteRepository) MarkDeleted(ctx context.Context, date string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE daily_entries SET deleted = 1, edited = 1, revision = revision + 1 WHERE date = ? AND deleted = 0`, date)
	if err != nil {
		return fmt.Errorf("failed to delete daily entry: %w", err)
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

func (r *SQLiteRepository) SelectEdited(ctx context.Context) ([]*models.DailyEntry, error) {
	return r.query(ctx, `SELECT `+columns+` FROM daily_entries WHERE edited = 1 AND deleted = 0 ORDER BY date`)
}

func (r *SQLiteRepository) SelectDeleted(ctx context.Context) ([]*models.DailyEntry, error) {
	return r.query(ctx, `SELECT `+columns+` FROM daily_entries WHERE deleted = 1 ORDER BY date`)
}

func (r *SQLiteRepository) ClearEdited(ctx context.Context, date string, revision int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE daily_entries SET edited = 0 WHERE date = ? AND revision = ? AND deleted = 0`, date, revision)
	if err != nil {
		return false, fmt.Errorf("failed to clear daily entry flag: %w", err)
	}
	return dbx.Affected(res)
}

func (r *SQLiteRepository) Purge(ctx context.Context, date string, revision int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM daily_entries WHERE date = ? AND revision = ? AND deleted = 1`, date, revision)
	if err != nil {
		return false, fmt.Errorf("failed to purge daily entry: %w", err)
	}
	return dbx.Affected(res)
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM daily_entries`); err != nil {
		return fmt.Errorf("failed to clear daily entries: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) InsertClean(ctx context.Context, e *models.DailyEntry) error {
	photos, err := encodePhotos(e.PhotoURLs)
	if err != nil {
		return err
	}
	query := `INSERT OR REPLACE INTO daily_entries (` + columns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, 0, 0)`
	if _, err := r.db.ExecContext(ctx, query, e.Date, e.Diary, e.Keywords, e.AIComment, e.EmotionScore,
		e.EmotionIcon, e.ThemeIcon, photos); err != nil {
		return fmt.Errorf("failed to insert daily entry: %w", err)
	}
	e.Dirty = models.Dirty{}
	return nil
}
