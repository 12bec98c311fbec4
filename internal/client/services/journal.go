package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/sumdays/internal/client/ids"
	"github.com/dmitrijs2005/sumdays/internal/client/models"
	"github.com/dmitrijs2005/sumdays/internal/client/store"
	"github.com/dmitrijs2005/sumdays/internal/common"
	"github.com/dmitrijs2005/sumdays/internal/wire"
)

// Memo types.
const (
	MemoTypeText  = "text"
	MemoTypePhoto = "photo"
)

var ErrInvalidDate = errors.New("date must look like 2006-01-02")

// DiaryUpdate carries the fields to change; nil fields keep their value.
type DiaryUpdate struct {
	Date         string
	Diary        *string
	Keywords     *string
	AIComment    *string
	EmotionScore *float64
	EmotionIcon  *string
	ThemeIcon    *string
}

type JournalService interface {
	AddMemo(ctx context.Context, date, content, memoType string) (*models.Memo, error)
	ListMemos(ctx context.Context, date string) ([]*models.Memo, error)
	EditMemo(ctx context.Context, id int64, content string) (*models.Memo, error)
	DeleteMemo(ctx context.Context, id int64) error

	GetDiary(ctx context.Context, date string) (*models.DailyEntry, error)
	SaveDiary(ctx context.Context, u DiaryUpdate) (*models.DailyEntry, error)
	DeleteDiary(ctx context.Context, date string) error
	AddPhoto(ctx context.Context, date, key string) (*models.DailyEntry, error)

	AddStyle(ctx context.Context, name, sampleDiary string, prompt wire.StylePrompt, examples []string) (*models.UserStyle, error)
	ListStyles(ctx context.Context) ([]*models.UserStyle, error)
	DeleteStyle(ctx context.Context, id int64) error

	SaveWeek(ctx context.Context, w *models.WeekSummary) error
	ListWeeks(ctx context.Context) ([]*models.WeekSummary, error)
	DeleteWeek(ctx context.Context, startDate string) error
}

type journalService struct {
	store *store.Store
	ids   *ids.Generator
	now   func() time.Time
}

func NewJournalService(s *store.Store, gen *ids.Generator) JournalService {
	return &journalService{store: s, ids: gen, now: time.Now}
}

func checkDate(date string) error {
	if _, err := time.Parse(common.DateLayout, date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return nil
}

func (s *journalService) AddMemo(ctx context.Context, date, content, memoType string) (*models.Memo, error) {
	if err := checkDate(date); err != nil {
		return nil, err
	}
	if memoType == "" {
		memoType = MemoTypeText
	}

	var m *models.Memo
	err := s.store.WithTx(ctx, func(ctx context.Context, r *store.Repositories) error {
		existing, err := r.Memos.ListByDate(ctx, date)
		if err != nil {
			return err
		}
		maxID, err := r.Memos.MaxID(ctx)
		if err != nil {
			return err
		}
		s.ids.Observe(maxID)
		m = &models.Memo{
			ID:        s.ids.Next(),
			Content:   content,
			Timestamp: s.now().Format(time.RFC3339),
			Date:      date,
			Order:     len(existing),
			Type:      memoType,
		}
		return r.Memos.Create(ctx, m)
	})
	if err != nil {
		return nil, fmt.Errorf("add memo: %w", err)
	}
	return m, nil
}

func (s *journalService) ListMemos(ctx context.Context, date string) ([]*models.Memo, error) {
	if err := checkDate(date); err != nil {
		return nil, err
	}
	return s.store.Repositories().Memos.ListByDate(ctx, date)
}

func (s *journalService) EditMemo(ctx context.Context, id int64, content string) (*models.Memo, error) {
	var m *models.Memo
	err := s.store.WithTx(ctx, func(ctx context.Context, r *store.Repositories) error {
		var err error
		if m, err = r.Memos.Get(ctx, id); err != nil {
			return err
		}
		m.Content = content
		return r.Memos.Save(ctx, m)
	})
	if err != nil {
		return nil, fmt.Errorf("edit memo %d: %w", id, err)
	}
	return m, nil
}

func (s *journalService) DeleteMemo(ctx context.Context, id int64) error {
	if err := s.store.Repositories().Memos.MarkDeleted(ctx, id); err != nil {
		return fmt.Errorf("delete memo %d: %w", id, err)
	}
	return nil
}

func (s *journalService) GetDiary(ctx context.Context, date string) (*models.DailyEntry, error) {
	if err := checkDate(date); err != nil {
		return nil, err
	}
	return s.store.Repositories().DailyEntries.Get(ctx, date)
}

// SaveDiary merges u into the stored entry, creating it when absent.
func (s *journalService) SaveDiary(ctx context.Context, u DiaryUpdate) (*models.DailyEntry, error) {
	if err := checkDate(u.Date); err != nil {
		return nil, err
	}

	var e *models.DailyEntry
	err := s.store.WithTx(ctx, func(ctx context.Context, r *store.Repositories) error {
		var err error
		e, err = r.DailyEntries.Get(ctx, u.Date)
		if errors.Is(err, common.ErrorNotFound) {
			e, err = &models.DailyEntry{Date: u.Date}, nil
		}
		if err != nil {
			return err
		}
		merge(e, u)
		return r.DailyEntries.Save(ctx, e)
	})
	if err != nil {
		return nil, fmt.Errorf("save diary %s: %w", u.Date, err)
	}
	return e, nil
}

func merge(e *models.DailyEntry, u DiaryUpdate) {
	if u.Diary != nil {
		e.Diary = u.Diary
	}
	if u.Keywords != nil {
		e.Keywords = u.Keywords
	}
	if u.AIComment != nil {
		e.AIComment = u.AIComment
	}
	if u.EmotionScore != nil {
		e.EmotionScore = u.EmotionScore
	}
	if u.EmotionIcon != nil {
		e.EmotionIcon = u.EmotionIcon
	}
	if u.ThemeIcon != nil {
		e.ThemeIcon = u.ThemeIcon
	}
}

func (s *journalService) DeleteDiary(ctx context.Context, date string) error {
	if err := s.store.Repositories().DailyEntries.MarkDeleted(ctx, date); err != nil {
		return fmt.Errorf("delete diary %s: %w", date, err)
	}
	return nil
}

// AddPhoto appends an uploaded object key to the photos of a day.
func (s *journalService) AddPhoto(ctx context.Context, date, key string) (*models.DailyEntry, error) {
	if err := checkDate(date); err != nil {
		return nil, err
	}

	var e *models.DailyEntry
	err := s.store.WithTx(ctx, func(ctx context.Context, r *store.Repositories) error {
		var err error
		e, err = r.DailyEntries.Get(ctx, date)
		if errors.Is(err, common.ErrorNotFound) {
			e, err = &models.DailyEntry{Date: date}, nil
		}
		if err != nil {
			return err
		}
		e.PhotoURLs = append(e.PhotoURLs, key)
		return r.DailyEntries.Save(ctx, e)
	})
	if err != nil {
		return nil, fmt.Errorf("add photo to %s: %w", date, err)
	}
	return e, nil
}

func (s *journalService) AddStyle(ctx context.Context, name, sampleDiary string, prompt wire.StylePrompt, examples []string) (*models.UserStyle, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: style name is empty", common.ErrorValidation)
	}
	if prompt.SentenceEndings == nil {
		prompt.SentenceEndings = []string{}
	}
	if examples == nil {
		examples = []string{}
	}

	var st *models.UserStyle
	err := s.store.WithTx(ctx, func(ctx context.Context, r *store.Repositories) error {
		maxID, err := r.Styles.MaxID(ctx)
		if err != nil {
			return err
		}
		s.ids.Observe(maxID)
		st = &models.UserStyle{
			StyleID:       s.ids.Next(),
			StyleName:     name,
			StyleVector:   []float32{},
			StyleExamples: examples,
			StylePrompt:   prompt,
			SampleDiary:   sampleDiary,
		}
		return r.Styles.Create(ctx, st)
	})
	if err != nil {
		return nil, fmt.Errorf("add style: %w", err)
	}
	return st, nil
}

func (s *journalService) ListStyles(ctx context.Context) ([]*models.UserStyle, error) {
	return s.store.Repositories().Styles.List(ctx)
}

func (s *journalService) DeleteStyle(ctx context.Context, id int64) error {
	if err := s.store.Repositories().Styles.MarkDeleted(ctx, id); err != nil {
		return fmt.Errorf("delete style %d: %w", id, err)
	}
	return nil
}

func (s *journalService) SaveWeek(ctx context.Context, w *models.WeekSummary) error {
	if err := checkDate(w.StartDate); err != nil {
		return err
	}
	if w.EndDate == "" {
		start, _ := time.Parse(common.DateLayout, w.StartDate)
		w.EndDate = start.AddDate(0, 0, 6).Format(common.DateLayout)
	}
	if err := s.store.Repositories().WeekSummaries.Save(ctx, w); err != nil {
		return fmt.Errorf("save week %s: %w", w.StartDate, err)
	}
	return nil
}

func (s *journalService) ListWeeks(ctx context.Context) ([]*models.WeekSummary, error) {
	return s.store.Repositories().WeekSummaries.List(ctx)
}

func (s *journalService) DeleteWeek(ctx context.Context, startDate string) error {
	if err := s.store.Repositories().WeekSummaries.MarkDeleted(ctx, startDate); err != nil {
		return fmt.Errorf("delete week %s: %w", startDate, err)
	}
	return nil
}
