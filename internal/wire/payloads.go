package wire

import "encoding/json"

// Memo is a short note; its natural key is the client-generated ID.
type Memo struct {
	ID        int64  `json:"room_id"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
	Date      string `json:"date" validate:"required"`
	Order     int    `json:"memo_order"`
	Type      string `json:"type"`
}

// DailyEntry is the diary of one day; its natural key is Date.
type DailyEntry struct {
	Date         string          `json:"date" validate:"required"`
	Diary        *string         `json:"diary"`
	Keywords     *string         `json:"keywords"`
	AIComment    *string         `json:"aiComment"`
	EmotionScore *float64        `json:"emotionScore"`
	EmotionIcon  *string         `json:"emotionIcon"`
	ThemeIcon    *string         `json:"themeIcon"`
	PhotoURLs    json.RawMessage `json:"photoUrls,omitempty"`
}

// UserStyle is a writing style profile; its natural key is StyleID.
type UserStyle struct {
	StyleID       int64           `json:"styleId"`
	StyleName     string          `json:"styleName"`
	StyleVector   json.RawMessage `json:"styleVector"`
	StyleExamples json.RawMessage `json:"styleExamples"`
	StylePrompt   json.RawMessage `json:"stylePrompt"`
	SampleDiary   string          `json:"sampleDiary"`
}

// WeekSummary aggregates a week of diaries; its natural key is StartDate.
type WeekSummary struct {
	StartDate       string          `json:"startDate" validate:"required"`
	EndDate         string          `json:"endDate"`
	DiaryCount      int             `json:"diaryCount"`
	EmotionAnalysis json.RawMessage `json:"emotionAnalysis"`
	Highlights      json.RawMessage `json:"highlights"`
	Insights        json.RawMessage `json:"insights"`
	Summary         json.RawMessage `json:"summary"`
}
