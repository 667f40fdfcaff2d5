package align

import (
	"testing"
)

func TestParseRecognizerOutput(t *testing.T) {
	data := []byte(`{
		"segments": [
			{"start": 0.5, "end": 2.3, "text": "hello world",
			 "words": [{"word": "hello", "start": 0.5, "end": 1.1},
			           {"word": "world", "start": 1.2, "end": 2.3}]},
			{"start": 2.5, "end": 4.0, "text": "goodbye"}
		]
	}`)

	segments, err := ParseRecognizerOutput(data)
	if err != nil {
		t.Fatalf("ParseRecognizerOutput: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if segments[0].Text != "hello world" || len(segments[0].Words) != 2 {
		t.Errorf("unexpected first segment %+v", segments[0])
	}
	if segments[0].Words[1].End != 2.3 {
		t.Errorf("word end = %f, want 2.3", segments[0].Words[1].End)
	}
	if len(segments[1].Words) != 0 {
		t.Errorf("second segment should have no words, got %d", len(segments[1].Words))
	}
}

func TestParseRecognizerOutputErrors(t *testing.T) {
	if _, err := ParseRecognizerOutput([]byte("not json")); err == nil {
		t.Error("expected error for malformed JSON")
	}
	if _, err := ParseRecognizerOutput([]byte(`{"segments": []}`)); err == nil {
		t.Error("expected error for empty segments")
	}
}

func TestParseSyncMap(t *testing.T) {
	data := []byte(`{
		"fragments": [
			{"begin": "0.000", "end": "2.480", "id": "sentence_000", "lines": ["first line"]},
			{"begin": "2.480", "end": "5.120", "id": "sentence_001", "lines": ["second line"]}
		]
	}`)

	fragments, err := ParseSyncMap(data)
	if err != nil {
		t.Fatalf("ParseSyncMap: %v", err)
	}
	if len(fragments) != 2 {
		t.Fatalf("expected 2 fragments, got %d", len(fragments))
	}
	if fragments[0].Begin != "0.000" || fragments[1].End != "5.120" {
		t.Errorf("unexpected fragments %+v", fragments)
	}
}

func TestSpansFromFragments(t *testing.T) {
	sents := sentencesFrom("first line", "second line")
	fragments := []SyncFragment{
		{Begin: "0.0", End: "2.5"},
		{Begin: "2.4", End: "5.0"},
	}

	spans, err := spansFromFragments(sents, fragments)
	if err != nil {
		t.Fatalf("spansFromFragments: %v", err)
	}
	// Overlapping fragment begin gets pushed forward to the cursor.
	if spans[1].Start != 2.5 {
		t.Errorf("span 1 start = %f, want clamped 2.5", spans[1].Start)
	}
	if spans[1].End != 5.0 {
		t.Errorf("span 1 end = %f, want 5.0", spans[1].End)
	}
}

func TestSpansFromFragmentsCountMismatch(t *testing.T) {
	sents := sentencesFrom("only one")
	fragments := []SyncFragment{{Begin: "0", End: "1"}, {Begin: "1", End: "2"}}

	if _, err := spansFromFragments(sents, fragments); err == nil {
		t.Error("expected error on fragment count mismatch")
	}
}

func TestSpansFromFragmentsBadNumbers(t *testing.T) {
	sents := sentencesFrom("a")
	fragments := []SyncFragment{{Begin: "zero", End: "1"}}

	if _, err := spansFromFragments(sents, fragments); err == nil {
		t.Error("expected error for unparsable begin time")
	}
}
