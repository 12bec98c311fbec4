package models

import "github.com/dmitrijs2005/sumdays/internal/wire"

func (m *Memo) ToWire() wire.Memo {
	return wire.Memo{
		ID:        m.ID,
		Content:   m.Content,
		Timestamp: m.Timestamp,
		Date:      m.Date,
		Order:     m.Order,
		Type:      m.Type,
	}
}

func MemoFromWire(p wire.Memo) *Memo {
	return &Memo{
		ID:        p.ID,
		Content:   p.Content,
		Timestamp: p.Timestamp,
		Date:      p.Date,
		Order:     p.Order,
		Type:      p.Type,
	}
}

func (e *DailyEntry) ToWire() wire.DailyEntry {
	p := wire.DailyEntry{
		Date:         e.Date,
		Diary:        e.Diary,
		Keywords:     e.Keywords,
		AIComment:    e.AIComment,
		EmotionScore: e.EmotionScore,
		EmotionIcon:  e.EmotionIcon,
		ThemeIcon:    e.ThemeIcon,
	}
	if len(e.PhotoURLs) > 0 {
		p.PhotoURLs = wire.Encode(e.PhotoURLs)
	}
	return p
}

func DailyEntryFromWire(p wire.DailyEntry) *DailyEntry {
	e := &DailyEntry{
		Date:         p.Date,
		Diary:        p.Diary,
		Keywords:     p.Keywords,
		AIComment:    p.AIComment,
		EmotionScore: p.EmotionScore,
		EmotionIcon:  p.EmotionIcon,
		ThemeIcon:    p.ThemeIcon,
	}
	if len(p.PhotoURLs) > 0 {
		e.PhotoURLs = wire.DecodeStrings(p.PhotoURLs)
	}
	return e
}

func (s *UserStyle) ToWire() wire.UserStyle {
	vector := s.StyleVector
	if vector == nil {
		vector = []float32{}
	}
	examples := s.StyleExamples
	if examples == nil {
		examples = []string{}
	}
	return wire.UserStyle{
		StyleID:       s.StyleID,
		StyleName:     s.StyleName,
		StyleVector:   wire.Encode(vector),
		StyleExamples: wire.Encode(examples),
		StylePrompt:   wire.Encode(s.StylePrompt),
		SampleDiary:   s.SampleDiary,
	}
}

func UserStyleFromWire(p wire.UserStyle) *UserStyle {
	return &UserStyle{
		StyleID:       p.StyleID,
		StyleName:     p.StyleName,
		StyleVector:   wire.DecodeFloats(p.StyleVector),
		StyleExamples: wire.DecodeStrings(p.StyleExamples),
		StylePrompt:   wire.DecodeStylePrompt(p.StylePrompt),
		SampleDiary:   p.SampleDiary,
	}
}

func (w *WeekSummary) ToWire() wire.WeekSummary {
	highlights := w.Highlights
	if highlights == nil {
		highlights = []wire.Highlight{}
	}
	return wire.WeekSummary{
		StartDate:       w.StartDate,
		EndDate:         w.EndDate,
		DiaryCount:      w.DiaryCount,
		EmotionAnalysis: wire.Encode(w.EmotionAnalysis),
		Highlights:      wire.Encode(highlights),
		Insights:        wire.Encode(w.Insights),
		Summary:         wire.Encode(w.Summary),
	}
}

func WeekSummaryFromWire(p wire.WeekSummary) *WeekSummary {
	return &WeekSummary{
		StartDate:       p.StartDate,
		EndDate:         p.EndDate,
		DiaryCount:      p.DiaryCount,
		EmotionAnalysis: wire.DecodeEmotionAnalysis(p.EmotionAnalysis),
		Highlights:      wire.DecodeHighlights(p.Highlights),
		Insights:        wire.DecodeInsights(p.Insights),
		Summary:         wire.DecodeSummaryDetails(p.Summary),
	}
}
