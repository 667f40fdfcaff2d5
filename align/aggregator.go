package align

import (
	"strings"

	"github.com/dhanaBhai/unposted/logging"
)

const (
	// DefaultOverlapThreshold is the fraction of a sentence's words that a
	// recognized segment must share with it to count as a match.
	DefaultOverlapThreshold = 0.30

	// DefaultPlaceholderSeconds is the synthesized span length for sentences
	// with no matching segment.
	DefaultPlaceholderSeconds = 2.0
)

// Aggregator maps recognizer segments onto transcript sentences by lexical
// overlap. It keeps a monotonic time cursor so spans never move backwards,
// even across placeholder runs.
type Aggregator struct {
	overlapThreshold   float64
	placeholderSeconds float64
}

// NewAggregator creates an aggregator. Non-positive parameters select the
// defaults.
func NewAggregator(overlapThreshold, placeholderSeconds float64) *Aggregator {
	if overlapThreshold <= 0 {
		overlapThreshold = DefaultOverlapThreshold
	}
	if placeholderSeconds <= 0 {
		placeholderSeconds = DefaultPlaceholderSeconds
	}
	return &Aggregator{
		overlapThreshold:   overlapThreshold,
		placeholderSeconds: placeholderSeconds,
	}
}

// Spans assigns one span to each sentence. A sentence takes the span of the
// first recognized segment (in recognition order) whose shared word count
// exceeds the overlap threshold; word timestamps win over segment timestamps
// when present. Sentences without a match get a placeholder span starting at
// the cursor. Every span is clamped to the cursor before the cursor advances
// to its end.
func (a *Aggregator) Spans(sents []Sentence, segments []RecognizedSegment) []Span {
	spans := make([]Span, 0, len(sents))
	cursor := 0.0

	for _, sent := range sents {
		span := a.matchSentence(sent, segments)
		if span.Placeholder {
			span.Start = cursor
			span.End = cursor + a.placeholderSeconds
		}
		if span.Start < cursor {
			span.Start = cursor
		}
		if span.End < span.Start {
			span.End = span.Start
		}
		cursor = span.End
		spans = append(spans, span)
	}

	return spans
}

func (a *Aggregator) matchSentence(sent Sentence, segments []RecognizedSegment) Span {
	sentWords := tokenSet(sent.Text)
	need := a.overlapThreshold * float64(len(strings.Fields(strings.ToLower(sent.Text))))

	for _, seg := range segments {
		if len(sentWords) == 0 {
			break
		}
		shared := 0
		for word := range tokenSet(seg.Text) {
			if _, ok := sentWords[word]; ok {
				shared++
			}
		}
		if float64(shared) > need {
			start, end := seg.Start, seg.End
			if len(seg.Words) > 0 {
				start = seg.Words[0].Start
				end = seg.Words[len(seg.Words)-1].End
			}
			return Span{Index: sent.Index, Text: sent.Text, Start: start, End: end}
		}
	}

	logging.Debug("No segment matched sentence, using placeholder span", logging.Fields{
		"sentence": sent.Index,
	})
	return Span{Index: sent.Index, Text: sent.Text, Placeholder: true}
}

func tokenSet(text string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.Trim(w, ".,!?;:\"'")] = struct{}{}
	}
	return set
}
