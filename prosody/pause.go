package prosody

import (
	"github.com/dhanaBhai/unposted/align"
)

// Pauses computes per-sentence silence durations from aligned spans. For each
// sentence i, before[i] is the gap between the previous span's end and this
// span's start, and after[i] is the gap to the next span's start. Overlapping
// spans clamp to zero. The first sentence has no pause before it and the last
// has none after.
func Pauses(spans []align.Span) (before, after []float64) {
	before = make([]float64, len(spans))
	after = make([]float64, len(spans))

	for i := 1; i < len(spans); i++ {
		gap := spans[i].Start - spans[i-1].End
		if gap < 0 {
			gap = 0
		}
		before[i] = gap
		after[i-1] = gap
	}

	return before, after
}
