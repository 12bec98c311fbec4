package models

import (
	"encoding/json"
	"testing"

	"github.com/dmitrijs2005/sumdays/internal/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestMemo_ToWireDropsSyncState(t *testing.T) {
	m := &Memo{ID: 5, Content: "A", Date: "2025-01-01", Order: 2, Type: "text", Dirty: Dirty{Edited: true, Revision: 3}}
	p := m.ToWire()
	assert.Equal(t, wire.Memo{ID: 5, Content: "A", Date: "2025-01-01", Order: 2, Type: "text"}, p)

	back := MemoFromWire(p)
	assert.False(t, back.Edited)
	assert.Zero(t, back.Revision)
}

func TestDailyEntry_PhotoURLs(t *testing.T) {
	e := &DailyEntry{Date: "2025-01-01", Diary: strPtr("day")}
	assert.Nil(t, e.ToWire().PhotoURLs, "no photos means the field is omitted")

	e.PhotoURLs = []string{"users/u/photo.jpg"}
	p := e.ToWire()
	assert.JSONEq(t, `["users/u/photo.jpg"]`, string(p.PhotoURLs))
	assert.Equal(t, e.PhotoURLs, DailyEntryFromWire(p).PhotoURLs)
}

func TestUserStyle_NilSlicesEncodeAsEmptyArrays(t *testing.T) {
	s := &UserStyle{StyleID: 7, StyleName: "calm"}
	p := s.ToWire()
	assert.JSONEq(t, `[]`, string(p.StyleVector))
	assert.JSONEq(t, `[]`, string(p.StyleExamples))

	back := UserStyleFromWire(p)
	assert.Equal(t, []float32{}, back.StyleVector)
	assert.Equal(t, []string{}, back.StyleExamples)
}

func TestWeekSummary_CorruptBlobBecomesDefault(t *testing.T) {
	p := wire.WeekSummary{
		StartDate:       "2025-01-06",
		EndDate:         "2025-01-12",
		DiaryCount:      4,
		EmotionAnalysis: json.RawMessage(`{broken`),
		Highlights:      json.RawMessage(`[{"date":"2025-01-07","summary":"run"}]`),
		Insights:        json.RawMessage(`{"advice":"rest"}`),
		Summary:         json.RawMessage(`null`),
	}

	w := WeekSummaryFromWire(p)
	require.NotNil(t, w)
	assert.Equal(t, wire.DefaultEmotionAnalysis(), w.EmotionAnalysis)
	assert.Equal(t, []wire.Highlight{{Date: "2025-01-07", Summary: "run"}}, w.Highlights)
	assert.Equal(t, "rest", w.Insights.Advice)
	assert.Equal(t, wire.DefaultSummaryDetails(), w.Summary)
}
