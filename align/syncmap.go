package align

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dhanaBhai/unposted/logging"
)

// SyncMapEngine aligns sentences with a forced-alignment tool that consumes a
// plain-text file of one sentence per line and emits a JSON sync map of the
// form {"fragments": [{"begin", "end", "lines"}]}. It is the fallback when
// word-level recognition is unavailable: every sentence gets its own fragment,
// so no lexical matching is needed.
type SyncMapEngine struct {
	binary  string
	args    []string
	timeout time.Duration
}

// NewSyncMapEngine creates the engine. An empty binary defaults to
// "aeneas_execute_task".
func NewSyncMapEngine(binary string, args []string, timeout time.Duration) *SyncMapEngine {
	if binary == "" {
		binary = "aeneas_execute_task"
	}
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &SyncMapEngine{binary: binary, args: args, timeout: timeout}
}

// Name implements Engine.
func (e *SyncMapEngine) Name() string {
	return "syncmap"
}

// Align implements Engine. The sentences are written to a temp file, the tool
// runs audio + text into a sync map, and fragments map onto sentences by
// position. Spans are clamped to a forward cursor.
func (e *SyncMapEngine) Align(ctx context.Context, audioPath string, sents []Sentence) ([]Span, error) {
	workDir, err := os.MkdirTemp("", "syncmap")
	if err != nil {
		return nil, fmt.Errorf("failed to create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	textPath := filepath.Join(workDir, "sentences.txt")
	outPath := filepath.Join(workDir, "syncmap.json")

	var text bytes.Buffer
	for _, sent := range sents {
		text.WriteString(sent.Text)
		text.WriteByte('\n')
	}
	if err := os.WriteFile(textPath, text.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write sentence file: %w", err)
	}

	if err := e.run(ctx, audioPath, textPath, outPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read sync map: %w", err)
	}

	fragments, err := ParseSyncMap(data)
	if err != nil {
		return nil, err
	}
	return spansFromFragments(sents, fragments)
}

func (e *SyncMapEngine) run(ctx context.Context, audioPath, textPath, outPath string) error {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	args := append(append([]string{}, e.args...), audioPath, textPath,
		"task_language=eng|is_text_type=plain|os_task_file_format=json", outPath)

	logging.Debug("Running forced aligner", logging.Fields{
		"binary": e.binary,
		"audio":  audioPath,
	})

	cmd := exec.CommandContext(ctx, e.binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("forced aligner failed: %w (stderr: %s)", err, stderr.String())
	}
	return nil
}

// SyncFragment is one fragment of a sync map. Begin and end arrive as decimal
// strings.
type SyncFragment struct {
	Begin string   `json:"begin"`
	End   string   `json:"end"`
	ID    string   `json:"id"`
	Lines []string `json:"lines"`
}

// ParseSyncMap decodes a sync map JSON document into its fragments.
func ParseSyncMap(data []byte) ([]SyncFragment, error) {
	var doc struct {
		Fragments []SyncFragment `json:"fragments"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse sync map: %w", err)
	}
	if len(doc.Fragments) == 0 {
		return nil, fmt.Errorf("sync map contains no fragments")
	}
	return doc.Fragments, nil
}

func spansFromFragments(sents []Sentence, fragments []SyncFragment) ([]Span, error) {
	if len(fragments) != len(sents) {
		return nil, fmt.Errorf("sync map has %d fragments for %d sentences", len(fragments), len(sents))
	}

	spans := make([]Span, 0, len(sents))
	cursor := 0.0
	for i, sent := range sents {
		begin, err := strconv.ParseFloat(fragments[i].Begin, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid fragment begin %q: %w", fragments[i].Begin, err)
		}
		end, err := strconv.ParseFloat(fragments[i].End, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid fragment end %q: %w", fragments[i].End, err)
		}

		if begin < cursor {
			begin = cursor
		}
		if end < begin {
			end = begin
		}
		cursor = end

		spans = append(spans, Span{Index: sent.Index, Text: sent.Text, Start: begin, End: end})
	}
	return spans, nil
}
