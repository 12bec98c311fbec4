package wire

import (
	"bytes"
	"encoding/json"
)

// StylePrompt describes how a writing style should sound.
type StylePrompt struct {
	CharacterConcept  string   `json:"character_concept"`
	Tone              string   `json:"tone"`
	Formality         string   `json:"formality"`
	SentenceLength    string   `json:"sentence_length"`
	SentenceStructure string   `json:"sentence_structure"`
	Pacing            string   `json:"pacing"`
	SentenceEndings   []string `json:"sentence_endings"`
	SpeechQuirks      string   `json:"speech_quirks"`
	PunctuationStyle  string   `json:"punctuation_style"`
	SpecialSyntax     string   `json:"special_syntax"`
	LexicalChoice     string   `json:"lexical_choice"`
	EmotionalTone     string   `json:"emotional_tone"`
}

// EmotionAnalysis is the emotion breakdown of a week.
type EmotionAnalysis struct {
	Distribution  map[string]int `json:"distribution"`
	DominantEmoji string         `json:"dominantEmoji"`
	EmotionScore  float64        `json:"emotionScore"`
	Trend         *string        `json:"trend,omitempty"`
}

// Highlight is a notable day of a week.
type Highlight struct {
	Date    string `json:"date"`
	Summary string `json:"summary"`
}

// Insights holds advice derived from a week.
type Insights struct {
	Advice       string `json:"advice"`
	EmotionCycle string `json:"emotionCycle"`
}

// SummaryDetails is the narrative summary of a week.
type SummaryDetails struct {
	EmergingTopics []string `json:"emergingTopics"`
	Overview       string   `json:"overview"`
	Title          string   `json:"title"`
}

// Defaults used when a stored blob is missing or cannot be decoded.

func DefaultStylePrompt() StylePrompt {
	return StylePrompt{SentenceEndings: []string{}}
}

func DefaultEmotionAnalysis() EmotionAnalysis {
	return EmotionAnalysis{Distribution: map[string]int{}}
}

func DefaultSummaryDetails() SummaryDetails {
	return SummaryDetails{EmergingTopics: []string{}}
}

// DecodeOr unmarshals raw into a T. Empty input, JSON null and malformed
// input all yield def().
func DecodeOr[T any](raw []byte, def func() T) T {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return def()
	}
	var v T
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return def()
	}
	return v
}

// Encode marshals v for transport as an opaque nested field. Values that
// cannot be marshalled encode as JSON null.
func Encode(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("null")
	}
	return b
}

func DecodeStylePrompt(raw []byte) StylePrompt {
	p := DecodeOr(raw, DefaultStylePrompt)
	if p.SentenceEndings == nil {
		p.SentenceEndings = []string{}
	}
	return p
}

func DecodeEmotionAnalysis(raw []byte) EmotionAnalysis {
	a := DecodeOr(raw, DefaultEmotionAnalysis)
	if a.Distribution == nil {
		a.Distribution = map[string]int{}
	}
	return a
}

func DecodeHighlights(raw []byte) []Highlight {
	h := DecodeOr(raw, func() []Highlight { return []Highlight{} })
	if h == nil {
		h = []Highlight{}
	}
	return h
}

func DecodeInsights(raw []byte) Insights {
	return DecodeOr(raw, func() Insights { return Insights{} })
}

func DecodeSummaryDetails(raw []byte) SummaryDetails {
	s := DecodeOr(raw, DefaultSummaryDetails)
	if s.EmergingTopics == nil {
		s.EmergingTopics = []string{}
	}
	return s
}

func DecodeFloats(raw []byte) []float32 {
	v := DecodeOr(raw, func() []float32 { return []float32{} })
	if v == nil {
		v = []float32{}
	}
	return v
}

func DecodeStrings(raw []byte) []string {
	v := DecodeOr(raw, func() []string { return []string{} })
	if v == nil {
		v = []string{}
	}
	return v
}
