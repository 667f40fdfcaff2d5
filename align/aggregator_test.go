package align

import (
	"testing"
)

func sentencesFrom(texts ...string) []Sentence {
	sents := make([]Sentence, len(texts))
	for i, t := range texts {
		sents[i] = Sentence{Index: i, Text: t}
	}
	return sents
}

func TestSpansMatchByOverlap(t *testing.T) {
	agg := NewAggregator(0.30, 2.0)

	sents := sentencesFrom("the quick brown fox jumps")
	segments := []RecognizedSegment{
		{Start: 1.0, End: 3.5, Text: "the quick brown fox jumps over"},
	}

	spans := agg.Spans(sents, segments)
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Placeholder {
		t.Error("expected a matched span, got placeholder")
	}
	if spans[0].Start != 1.0 || spans[0].End != 3.5 {
		t.Errorf("span = [%f, %f], want [1.0, 3.5]", spans[0].Start, spans[0].End)
	}
}

func TestSpansPreferWordTimestamps(t *testing.T) {
	agg := NewAggregator(0.30, 2.0)

	sents := sentencesFrom("hello there friend")
	segments := []RecognizedSegment{
		{
			Start: 0.0, End: 5.0, Text: "hello there friend",
			Words: []Word{
				{Word: "hello", Start: 0.4, End: 0.9},
				{Word: "there", Start: 1.0, End: 1.4},
				{Word: "friend", Start: 1.5, End: 2.1},
			},
		},
	}

	spans := agg.Spans(sents, segments)
	if spans[0].Start != 0.4 || spans[0].End != 2.1 {
		t.Errorf("span = [%f, %f], want word-level [0.4, 2.1]", spans[0].Start, spans[0].End)
	}
}

func TestSpansBelowThresholdPlaceholder(t *testing.T) {
	agg := NewAggregator(0.30, 2.0)

	sents := sentencesFrom("completely different vocabulary entirely here")
	segments := []RecognizedSegment{
		{Start: 0.0, End: 4.0, Text: "nothing in common at all"},
	}

	spans := agg.Spans(sents, segments)
	if !spans[0].Placeholder {
		t.Fatal("expected placeholder span for unmatched sentence")
	}
	if spans[0].Start != 0.0 || spans[0].End != 2.0 {
		t.Errorf("placeholder span = [%f, %f], want [0.0, 2.0]", spans[0].Start, spans[0].End)
	}
}

func TestSpansPlaceholderAdvancesCursor(t *testing.T) {
	agg := NewAggregator(0.30, 2.0)

	// No segments at all: every sentence takes consecutive placeholder spans.
	sents := sentencesFrom("first sentence here", "second sentence here", "third sentence here")
	spans := agg.Spans(sents, nil)

	expected := [][2]float64{{0, 2}, {2, 4}, {4, 6}}
	for i, span := range spans {
		if !span.Placeholder {
			t.Errorf("span %d should be a placeholder", i)
		}
		if span.Start != expected[i][0] || span.End != expected[i][1] {
			t.Errorf("span %d = [%f, %f], want [%f, %f]",
				i, span.Start, span.End, expected[i][0], expected[i][1])
		}
	}
}

func TestSpansMonotonicStarts(t *testing.T) {
	agg := NewAggregator(0.30, 2.0)

	// The second segment starts before the first ends; clamping keeps the
	// sequence monotonic.
	sents := sentencesFrom("alpha beta gamma", "delta epsilon zeta", "unmatched words only")
	segments := []RecognizedSegment{
		{Start: 2.0, End: 6.0, Text: "alpha beta gamma"},
		{Start: 4.0, End: 5.0, Text: "delta epsilon zeta"},
	}

	spans := agg.Spans(sents, segments)
	cursor := 0.0
	for i, span := range spans {
		if span.Start < cursor {
			t.Errorf("span %d start %f precedes previous end %f", i, span.Start, cursor)
		}
		if span.End < span.Start {
			t.Errorf("span %d end %f precedes its start %f", i, span.End, span.Start)
		}
		cursor = span.End
	}
	// The clamped second span collapses forward rather than regressing.
	if spans[1].Start != 6.0 {
		t.Errorf("span 1 start = %f, want clamped to 6.0", spans[1].Start)
	}
}

func TestSpansFirstMatchWins(t *testing.T) {
	agg := NewAggregator(0.30, 2.0)

	sents := sentencesFrom("shared words everywhere")
	segments := []RecognizedSegment{
		{Start: 1.0, End: 2.0, Text: "shared words everywhere first"},
		{Start: 5.0, End: 6.0, Text: "shared words everywhere second"},
	}

	spans := agg.Spans(sents, segments)
	if spans[0].Start != 1.0 {
		t.Errorf("span start = %f, want the first matching segment at 1.0", spans[0].Start)
	}
}

func TestSpansOneSpanPerSentence(t *testing.T) {
	agg := NewAggregator(0.30, 2.0)

	sents := sentencesFrom("one", "two", "three", "four")
	segments := []RecognizedSegment{{Start: 0, End: 1, Text: "one"}}

	spans := agg.Spans(sents, segments)
	if len(spans) != len(sents) {
		t.Fatalf("got %d spans for %d sentences", len(spans), len(sents))
	}
	for i, span := range spans {
		if span.Index != i {
			t.Errorf("span %d has index %d", i, span.Index)
		}
	}
}
