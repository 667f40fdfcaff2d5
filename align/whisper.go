package align

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"

	"github.com/dhanaBhai/unposted/logging"
)

// WhisperEngine aligns sentences against word-level recognizer output. It
// shells out to a whisperx-compatible binary that writes a JSON document with
// a "segments" array to stdout, then maps segments onto sentences with the
// aggregator.
type WhisperEngine struct {
	binary     string
	args       []string
	timeout    time.Duration
	aggregator *Aggregator
}

// NewWhisperEngine creates the engine. An empty binary defaults to "whisperx"
// and a nil aggregator gets the default thresholds.
func NewWhisperEngine(binary string, args []string, timeout time.Duration, aggregator *Aggregator) *WhisperEngine {
	if binary == "" {
		binary = "whisperx"
	}
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	if aggregator == nil {
		aggregator = NewAggregator(0, 0)
	}
	return &WhisperEngine{
		binary:     binary,
		args:       args,
		timeout:    timeout,
		aggregator: aggregator,
	}
}

// Name implements Engine.
func (e *WhisperEngine) Name() string {
	return "whisper"
}

// Align implements Engine. Recognition runs over the whole file; the
// aggregator assigns a span to every sentence.
func (e *WhisperEngine) Align(ctx context.Context, audioPath string, sents []Sentence) ([]Span, error) {
	segments, err := e.recognize(ctx, audioPath)
	if err != nil {
		return nil, err
	}
	return e.aggregator.Spans(sents, segments), nil
}

func (e *WhisperEngine) recognize(ctx context.Context, audioPath string) ([]RecognizedSegment, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	args := append(append([]string{}, e.args...), audioPath)

	logging.Debug("Running speech recognizer", logging.Fields{
		"binary": e.binary,
		"audio":  audioPath,
	})

	cmd := exec.CommandContext(ctx, e.binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("recognizer failed: %w (stderr: %s)", err, stderr.String())
	}

	return ParseRecognizerOutput(stdout.Bytes())
}

// ParseRecognizerOutput decodes a recognizer JSON document of the form
// {"segments": [{"start", "end", "text", "words": [...]}]}.
func ParseRecognizerOutput(data []byte) ([]RecognizedSegment, error) {
	var doc struct {
		Segments []RecognizedSegment `json:"segments"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse recognizer output: %w", err)
	}
	if len(doc.Segments) == 0 {
		return nil, fmt.Errorf("recognizer output contains no segments")
	}
	return doc.Segments, nil
}
