package valence

import (
	"math"
	"strings"

	"github.com/jonreiter/govader"

	"github.com/dhanaBhai/unposted/logging"
)

// Score holds the aggregated valence of a piece of text.
// ValenceRaw is the length-weighted mean VADER compound score in [-1, 1].
// ValenceNorm rescales it to [0, 1], and Confidence is the magnitude of the
// raw score: neutral text yields low confidence.
type Score struct {
	ValenceRaw  float64 `json:"valence_raw"`
	ValenceNorm float64 `json:"valence_norm"`
	Confidence  float64 `json:"confidence"`
}

// SentenceScore is the per-sentence breakdown produced by ScoreDetailed.
type SentenceScore struct {
	Text     string  `json:"text"`
	Compound float64 `json:"compound"`
	Positive float64 `json:"positive"`
	Neutral  float64 `json:"neutral"`
	Negative float64 `json:"negative"`
	Length   int     `json:"length"`
}

// DetailedScore pairs the aggregate valence with its per-sentence inputs.
type DetailedScore struct {
	Score         Score           `json:"score"`
	CleanedText   string          `json:"cleaned_text"`
	SentenceCount int             `json:"sentence_count"`
	Sentences     []SentenceScore `json:"sentences"`
}

// Analyzer scores the emotional valence of transcript text. It owns a VADER
// sentiment model and a Normalizer; construct once and reuse.
type Analyzer struct {
	vader      *govader.SentimentIntensityAnalyzer
	normalizer *Normalizer
}

// NewAnalyzer creates an analyzer with the given filler phrases (nil selects
// the defaults).
func NewAnalyzer(fillerPhrases []string) *Analyzer {
	return &Analyzer{
		vader:      govader.NewSentimentIntensityAnalyzer(),
		normalizer: NewNormalizer(fillerPhrases),
	}
}

// Normalizer exposes the analyzer's text normalizer for callers that need
// cleaning or sentence segmentation on their own.
func (a *Analyzer) Normalizer() *Normalizer {
	return a.normalizer
}

// Score computes the valence of text. Empty or whitespace-only input returns
// the neutral score {0, 0.5, 0} without invoking the sentiment model.
func (a *Analyzer) Score(text string) Score {
	return a.ScoreDetailed(text).Score
}

// ScoreDetailed computes the valence of text along with the per-sentence
// compound scores that produced it. Sentences are weighted by word count so
// that longer statements dominate the aggregate.
func (a *Analyzer) ScoreDetailed(text string) DetailedScore {
	if strings.TrimSpace(text) == "" {
		return DetailedScore{Score: neutralScore()}
	}

	cleaned := a.normalizer.Clean(text)
	if cleaned == "" {
		return DetailedScore{Score: neutralScore()}
	}

	parts := a.normalizer.SplitSentences(cleaned)
	if len(parts) == 0 {
		parts = []string{cleaned}
	}

	scores := make([]SentenceScore, 0, len(parts))
	weightedSum := 0.0
	totalWeight := 0
	for _, part := range parts {
		sentiment := a.vader.PolarityScores(part)
		s := SentenceScore{
			Text:     part,
			Compound: sentiment.Compound,
			Positive: sentiment.Positive,
			Neutral:  sentiment.Neutral,
			Negative: sentiment.Negative,
			Length:   len(strings.Fields(part)),
		}
		scores = append(scores, s)
		weightedSum += s.Compound * float64(s.Length)
		totalWeight += s.Length
	}

	raw := 0.0
	if totalWeight > 0 {
		raw = weightedSum / float64(totalWeight)
	}

	logging.Debug("Scored text valence", logging.Fields{
		"sentences":   len(scores),
		"valence_raw": raw,
	})

	return DetailedScore{
		Score: Score{
			ValenceRaw:  raw,
			ValenceNorm: (raw + 1.0) / 2.0,
			Confidence:  math.Abs(raw),
		},
		CleanedText:   cleaned,
		SentenceCount: len(scores),
		Sentences:     scores,
	}
}

func neutralScore() Score {
	return Score{ValenceRaw: 0.0, ValenceNorm: 0.5, Confidence: 0.0}
}
