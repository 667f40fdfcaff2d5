package valence

import (
	"regexp"
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"

	"github.com/dhanaBhai/unposted/logging"
)

// DefaultFillerPhrases are the filler tokens stripped before scoring when the
// caller does not supply a custom set.
var DefaultFillerPhrases = []string{
	"um", "uh", "er", "ah", "like", "you know", "i mean",
	"sort of", "kind of", "basically", "actually", "literally",
}

var (
	whitespaceRe    = regexp.MustCompile(`\s+`)
	punctuationRe   = regexp.MustCompile(`[.!?]+`)
	sentenceCleanRe = regexp.MustCompile(`^\s+|\s+$`)
)

// Normalizer cleans transcript text and segments it into sentences.
// Construction compiles one boundary-matching pattern per filler phrase and
// loads the English sentence tokenizer once; reuse the instance across calls.
type Normalizer struct {
	fillerPatterns []*regexp.Regexp
	tokenizer      *sentences.DefaultSentenceTokenizer
}

// NewNormalizer creates a normalizer with the given filler phrases. A nil or
// empty slice selects DefaultFillerPhrases. The sentence tokenizer is optional:
// if it cannot be loaded the normalizer falls back to punctuation splitting.
func NewNormalizer(fillerPhrases []string) *Normalizer {
	if len(fillerPhrases) == 0 {
		fillerPhrases = DefaultFillerPhrases
	}

	patterns := make([]*regexp.Regexp, 0, len(fillerPhrases))
	for _, phrase := range fillerPhrases {
		phrase = strings.ToLower(strings.TrimSpace(phrase))
		if phrase == "" {
			continue
		}
		patterns = append(patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(phrase)+`\b`))
	}

	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		logging.Warn("Sentence tokenizer unavailable, using punctuation splitting", logging.Fields{
			"error": err.Error(),
		})
		tokenizer = nil
	}

	return &Normalizer{
		fillerPatterns: patterns,
		tokenizer:      tokenizer,
	}
}

// Clean lowercases text, removes filler phrases on word boundaries, and
// collapses runs of whitespace to single spaces.
func (n *Normalizer) Clean(text string) string {
	cleaned := strings.ToLower(strings.TrimSpace(text))

	for _, pattern := range n.fillerPatterns {
		cleaned = pattern.ReplaceAllString(cleaned, "")
	}

	return strings.TrimSpace(whitespaceRe.ReplaceAllString(cleaned, " "))
}

// SplitSentences segments text into sentences, dropping empty fragments. The
// returned slice preserves utterance order.
func (n *Normalizer) SplitSentences(text string) []string {
	if n.tokenizer != nil {
		tokens := n.tokenizer.Tokenize(text)
		result := make([]string, 0, len(tokens))
		for _, token := range tokens {
			s := sentenceCleanRe.ReplaceAllString(token.Text, "")
			if s != "" {
				result = append(result, s)
			}
		}
		return result
	}

	// Punctuation failover
	fragments := punctuationRe.Split(text, -1)
	result := make([]string, 0, len(fragments))
	for _, fragment := range fragments {
		s := strings.TrimSpace(fragment)
		if s != "" {
			result = append(result, s)
		}
	}
	return result
}
