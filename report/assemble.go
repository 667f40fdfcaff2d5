package report

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/dhanaBhai/unposted/align"
	"github.com/dhanaBhai/unposted/logging"
	"github.com/dhanaBhai/unposted/prosody"
)

// Assemble joins aligned spans, extracted features, pause durations and the
// valence table into the final report. Every input slice except valences must
// have one entry per sentence; a sentence without a valence entry gets 0.0
// with a warning rather than failing the run.
func Assemble(audioFile string, spans []align.Span, features []prosody.Result, before, after, valences []float64) (*Report, error) {
	n := len(spans)
	if len(features) != n || len(before) != n || len(after) != n {
		return nil, fmt.Errorf("inconsistent inputs: %d spans, %d feature sets, %d/%d pauses",
			n, len(features), len(before), len(after))
	}

	if len(valences) != n {
		logging.Warn("Valence table size differs from sentence count", logging.Fields{
			"valences":  len(valences),
			"sentences": n,
		})
	}

	records := make([]SentenceRecord, 0, n)
	for i, span := range spans {
		valence := 0.0
		if i < len(valences) {
			valence = valences[i]
		} else {
			logging.Warn("No valence entry for sentence, defaulting to 0.0", logging.Fields{
				"sentence": i,
			})
		}

		records = append(records, SentenceRecord{
			Index:       span.Index,
			Text:        span.Text,
			Valence:     valence,
			StartTime:   span.Start,
			EndTime:     span.End,
			PauseBefore: before[i],
			PauseAfter:  after[i],
			Features:    features[i].Features,
		})
	}

	return &Report{
		AudioFile: audioFile,
		Summary:   summarize(records),
		Sentences: records,
	}, nil
}

// summarize computes aggregate statistics. Mean F0 covers only sentences with
// voiced audio so that silent or failed extractions do not drag it to zero.
func summarize(records []SentenceRecord) Summary {
	summary := Summary{SentenceCount: len(records)}
	if len(records) == 0 {
		return summary
	}

	valences := make([]float64, len(records))
	var voicedF0 []float64
	for i, rec := range records {
		valences[i] = rec.Valence
		summary.TotalPause += rec.PauseBefore
		if rec.Features.MeanF0 > 0 {
			voicedF0 = append(voicedF0, rec.Features.MeanF0)
		}
	}

	summary.TotalDuration = records[len(records)-1].EndTime
	summary.MeanValence = stat.Mean(valences, nil)
	if len(voicedF0) > 0 {
		summary.MeanF0 = stat.Mean(voicedF0, nil)
	}
	return summary
}
