// Package models defines the client-side records kept in the local store.
//
// Every record embeds Dirty: Edited marks local changes not yet acknowledged
// by the server, Deleted marks a tombstone waiting for its deletion to be
// acknowledged, and Revision counts local mutations so that flags are only
// cleared for the exact version that was uploaded.
package models

import "github.com/dmitrijs2005/sumdays/internal/wire"

// Dirty holds the sync state of a row.
type Dirty struct {
	Edited   bool
	Deleted  bool
	Revision int64
}

// Memo is a short note written during the day.
type Memo struct {
	ID        int64
	Content   string
	Timestamp string
	Date      string
	Order     int
	Type      string
	Dirty
}

// DailyEntry is the diary of one day.
type DailyEntry struct {
	Date         string
	Diary        *string
	Keywords     *string
	AIComment    *string
	EmotionScore *float64
	EmotionIcon  *string
	ThemeIcon    *string
	PhotoURLs    []string
	Dirty
}

// UserStyle is a writing style profile.
type UserStyle struct {
	StyleID       int64
	StyleName     string
	StyleVector   []float32
	StyleExamples []string
	StylePrompt   wire.StylePrompt
	SampleDiary   string
	Dirty
}

// WeekSummary aggregates a week of diaries.
type WeekSummary struct {
	StartDate       string
	EndDate         string
	DiaryCount      int
	EmotionAnalysis wire.EmotionAnalysis
	Highlights      []wire.Highlight
	Insights        wire.Insights
	Summary         wire.SummaryDetails
	Dirty
}
