package pipeline

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/dhanaBhai/unposted/align"
)

// LoadTranscript reads a transcript file with one sentence per line. Blank
// lines are dropped and sentences are indexed in file order.
func LoadTranscript(path string) ([]align.Sentence, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open transcript: %w", err)
	}
	defer file.Close()

	var sents []align.Sentence
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		sents = append(sents, align.Sentence{Index: len(sents), Text: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}
	if len(sents) == 0 {
		return nil, fmt.Errorf("transcript contains no sentences")
	}
	return sents, nil
}
