package align

import (
	"context"
	"fmt"

	"github.com/dhanaBhai/unposted/logging"
)

// Sentence is one transcript sentence in utterance order.
type Sentence struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Word is a single recognized word with its timestamps in seconds.
type Word struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// RecognizedSegment is one segment of recognizer output. Words may be empty
// when the engine does not produce word-level timestamps.
type RecognizedSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
	Words []Word  `json:"words,omitempty"`
}

// Span is the time span assigned to one sentence. Placeholder marks spans that
// were synthesized because no recognized segment matched the sentence.
type Span struct {
	Index       int     `json:"index"`
	Text        string  `json:"text"`
	Start       float64 `json:"start"`
	End         float64 `json:"end"`
	Placeholder bool    `json:"placeholder,omitempty"`
}

// Engine aligns transcript sentences against an audio file and produces one
// span per sentence, in sentence order.
type Engine interface {
	Name() string
	Align(ctx context.Context, audioPath string, sents []Sentence) ([]Span, error)
}

// Chain runs engines in order and falls back to the next one when an engine
// returns an error. There are no retries: a failing engine is abandoned for
// the rest of the call.
type Chain struct {
	engines []Engine
}

// NewChain creates an engine chain. At least one engine is required.
func NewChain(engines ...Engine) (*Chain, error) {
	if len(engines) == 0 {
		return nil, fmt.Errorf("alignment chain requires at least one engine")
	}
	return &Chain{engines: engines}, nil
}

// Name implements Engine.
func (c *Chain) Name() string {
	return "chain"
}

// Align tries each engine in order and returns the first successful result.
// When every engine fails the last error is returned wrapped.
func (c *Chain) Align(ctx context.Context, audioPath string, sents []Sentence) ([]Span, error) {
	var lastErr error
	for _, engine := range c.engines {
		spans, err := engine.Align(ctx, audioPath, sents)
		if err == nil {
			logging.Debug("Alignment engine succeeded", logging.Fields{
				"engine":    engine.Name(),
				"sentences": len(sents),
			})
			return spans, nil
		}
		logging.Warn("Alignment engine failed, trying next", logging.Fields{
			"engine": engine.Name(),
			"error":  err.Error(),
		})
		lastErr = err
	}
	return nil, fmt.Errorf("all alignment engines failed: %w", lastErr)
}
