package report

import (
	"github.com/dhanaBhai/unposted/prosody"
)

// SentenceRecord joins one sentence's text, valence, timing and acoustic
// features into a single row of the report.
type SentenceRecord struct {
	Index       int                   `json:"index"`
	Text        string                `json:"text"`
	Valence     float64               `json:"valence"`
	StartTime   float64               `json:"start_time"`
	EndTime     float64               `json:"end_time"`
	PauseBefore float64               `json:"pause_before"`
	PauseAfter  float64               `json:"pause_after"`
	Features    prosody.FeatureVector `json:"features"`
}

// Summary holds aggregate statistics over all sentences.
type Summary struct {
	SentenceCount int     `json:"sentence_count"`
	TotalDuration float64 `json:"total_duration"`
	MeanValence   float64 `json:"mean_valence"`
	MeanF0        float64 `json:"mean_f0"`
	TotalPause    float64 `json:"total_pause"`
}

// Report is the top-level analysis document.
type Report struct {
	AudioFile string           `json:"audio_file"`
	Summary   Summary          `json:"summary"`
	Sentences []SentenceRecord `json:"sentences"`
}
