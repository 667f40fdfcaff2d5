package prosody

import (
	"testing"

	"github.com/dhanaBhai/unposted/align"
)

func TestPausesGaps(t *testing.T) {
	spans := []align.Span{
		{Index: 0, Start: 0.0, End: 2.0},
		{Index: 1, Start: 2.5, End: 4.0},
		{Index: 2, Start: 4.0, End: 6.0},
	}

	before, after := Pauses(spans)

	if before[0] != 0 {
		t.Errorf("first pause before = %f, want 0", before[0])
	}
	if after[len(after)-1] != 0 {
		t.Errorf("last pause after = %f, want 0", after[len(after)-1])
	}
	if before[1] != 0.5 || after[0] != 0.5 {
		t.Errorf("gap around span 0/1 = before %f after %f, want 0.5 both", before[1], after[0])
	}
	if before[2] != 0 || after[1] != 0 {
		t.Errorf("adjacent spans should have zero gap, got before %f after %f", before[2], after[1])
	}
}

func TestPausesClampNegativeGaps(t *testing.T) {
	spans := []align.Span{
		{Index: 0, Start: 0.0, End: 3.0},
		{Index: 1, Start: 2.0, End: 4.0}, // overlaps previous span
	}

	before, after := Pauses(spans)
	if before[1] != 0 || after[0] != 0 {
		t.Errorf("overlap should clamp to zero, got before %f after %f", before[1], after[0])
	}
}

func TestPausesSingleAndEmpty(t *testing.T) {
	before, after := Pauses([]align.Span{{Index: 0, Start: 1, End: 2}})
	if len(before) != 1 || len(after) != 1 || before[0] != 0 || after[0] != 0 {
		t.Errorf("single span pauses = %v %v, want [0] [0]", before, after)
	}

	before, after = Pauses(nil)
	if len(before) != 0 || len(after) != 0 {
		t.Errorf("empty spans should produce empty pauses, got %v %v", before, after)
	}
}
