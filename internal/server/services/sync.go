package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/sumdays/internal/cryptox"
	"github.com/dmitrijs2005/sumdays/internal/dbx"
	"github.com/dmitrijs2005/sumdays/internal/logging"
	"github.com/dmitrijs2005/sumdays/internal/server/models"
	"github.com/dmitrijs2005/sumdays/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/sumdays/internal/wire"
)

var placeholderPasswordHash = cryptox.PlaceholderPasswordHash

// PlaceholderLogin is the login given to users provisioned on first sync.
func PlaceholderLogin(userID string) string {
	return fmt.Sprintf("auto_user_%s@example.com", userID)
}

type SyncService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewSyncService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *SyncService {
	return &SyncService{db: db, repomanager: m, log: log.With("module", "sync")}
}

// Apply stores one delta for userID. Deletes run before upserts, and the
// whole request commits or rolls back as a unit.
func (s *SyncService) Apply(ctx context.Context, userID string, req *wire.SyncRequest) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.provision(ctx, tx, userID); err != nil {
			return err
		}
		if req.IsEmpty() {
			return nil
		}
		if err := s.applyDeletes(ctx, tx, userID, req.Deleted); err != nil {
			return err
		}
		return s.applyEdits(ctx, tx, userID, req.Edited)
	})
	if err != nil {
		s.log.Error(ctx, "sync apply failed", "user", userID, "error", err)
		return fmt.Errorf("apply sync: %w", err)
	}
	return nil
}

// provision bumps last_seen_at of a known user. Only an unknown one pays for
// the placeholder password hash and gets a row.
func (s *SyncService) provision(ctx context.Context, tx dbx.DBTX, userID string) error {
	repo := s.repomanager.Users(tx)
	exists, err := repo.Touch(ctx, userID)
	if err != nil || exists {
		return err
	}

	hash, err := placeholderPasswordHash()
	if err != nil {
		return fmt.Errorf("placeholder password: %w", err)
	}
	created, err := repo.Create(ctx, &models.User{
		ID:           userID,
		Login:        PlaceholderLogin(userID),
		PasswordHash: hash,
	})
	if err != nil {
		return err
	}
	if created {
		s.log.Info(ctx, "user provisioned", "user", userID)
	}
	return nil
}

func (s *SyncService) applyDeletes(ctx context.Context, tx dbx.DBTX, userID string, d *wire.DeletedSection) error {
	if d.IsEmpty() {
		return nil
	}
	var total int64
	steps := []func() (int64, error){
		func() (int64, error) { return s.repomanager.Memos(tx).DeleteByKeys(ctx, userID, d.Memo) },
		func() (int64, error) { return s.repomanager.DailyEntries(tx).DeleteByKeys(ctx, userID, d.DailyEntry) },
		func() (int64, error) { return s.repomanager.Styles(tx).DeleteByKeys(ctx, userID, d.UserStyle) },
		func() (int64, error) { return s.repomanager.WeekSummaries(tx).DeleteByKeys(ctx, userID, d.WeekSummary) },
	}
	for _, step := range steps {
		n, err := step()
		if err != nil {
			return err
		}
		total += n
	}
	s.log.Debug(ctx, "deletes applied", "user", userID, "rows", total)
	return nil
}

func (s *SyncService) applyEdits(ctx context.Context, tx dbx.DBTX, userID string, e *wire.EditedSection) error {
	if e.IsEmpty() {
		return nil
	}
	if err := s.repomanager.Memos(tx).Upsert(ctx, userID, e.Memo); err != nil {
		return err
	}
	if err := s.repomanager.DailyEntries(tx).Upsert(ctx, userID, e.DailyEntry); err != nil {
		return err
	}
	if err := s.repomanager.Styles(tx).Upsert(ctx, userID, e.UserStyle); err != nil {
		return err
	}
	return s.repomanager.WeekSummaries(tx).Upsert(ctx, userID, e.WeekSummary)
}

// Fetch returns every row of userID. Nested fields that cannot be decoded
// are replaced with their defaults instead of failing the whole response.
func (s *SyncService) Fetch(ctx context.Context, userID string) (*wire.FetchResponse, error) {
	resp := wire.EmptyFetchResponse()

	err := dbx.WithTx(ctx, s.db, &sql.TxOptions{ReadOnly: true}, func(ctx context.Context, tx dbx.DBTX) error {
		memos, err := s.repomanager.Memos(tx).ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		entries, err := s.repomanager.DailyEntries(tx).ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		styles, err := s.repomanager.Styles(tx).ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		weeks, err := s.repomanager.WeekSummaries(tx).ListByUser(ctx, userID)
		if err != nil {
			return err
		}

		resp.Memo = append(resp.Memo, memos...)
		for _, e := range entries {
			resp.DailyEntry = append(resp.DailyEntry, normalizeEntry(e))
		}
		for _, st := range styles {
			resp.UserStyle = append(resp.UserStyle, normalizeStyle(st))
		}
		for _, w := range weeks {
			resp.WeekSummary = append(resp.WeekSummary, normalizeWeek(w))
		}
		return nil
	})
	if err != nil {
		s.log.Error(ctx, "fetch failed", "user", userID, "error", err)
		return nil, fmt.Errorf("fetch: %w", err)
	}
	return resp, nil
}

func normalizeEntry(e wire.DailyEntry) wire.DailyEntry {
	if len(e.PhotoURLs) > 0 {
		e.PhotoURLs = wire.Encode(wire.DecodeStrings(e.PhotoURLs))
	}
	return e
}

func normalizeStyle(st wire.UserStyle) wire.UserStyle {
	st.StyleVector = wire.Encode(wire.DecodeFloats(st.StyleVector))
	st.StyleExamples = wire.Encode(wire.DecodeStrings(st.StyleExamples))
	st.StylePrompt = wire.Encode(wire.DecodeStylePrompt(st.StylePrompt))
	return st
}

func normalizeWeek(w wire.WeekSummary) wire.WeekSummary {
	w.EmotionAnalysis = wire.Encode(wire.DecodeEmotionAnalysis(w.EmotionAnalysis))
	w.Highlights = wire.Encode(wire.DecodeHighlights(w.Highlights))
	w.Insights = wire.Encode(wire.DecodeInsights(w.Insights))
	w.Summary = wire.Encode(wire.DecodeSummaryDetails(w.Summary))
	return w
}
