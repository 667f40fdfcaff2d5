package prosody

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/dhanaBhai/unposted/logging"
)

// SegmentSource provides PCM samples for a time span of an audio file.
// Implementations return mono float64 samples and their sample rate.
type SegmentSource interface {
	Slice(start, end float64) ([]float64, int, error)
}

// ExtractorConfig holds extraction parameters.
type ExtractorConfig struct {
	FrameSize     int `json:"frame_size"`
	HopSize       int `json:"hop_size"`
	ContourPoints int `json:"contour_points"`
}

// DefaultExtractorConfig returns parameters suited to 22.05 kHz speech.
func DefaultExtractorConfig() *ExtractorConfig {
	return &ExtractorConfig{
		FrameSize:     1024,
		HopSize:       512,
		ContourPoints: 20,
	}
}

// Result pairs a feature vector with the sub-features that could not be
// computed for it. A populated Failures map does not invalidate the rest of
// the vector: each sub-feature fails independently.
type Result struct {
	Features FeatureVector     `json:"features"`
	Failures map[string]string `json:"failures,omitempty"`
}

// Extractor computes the acoustic feature vector for sentence spans. The
// pitch trackers run tiered: YIN first, FFT peak picking when YIN finds no
// voiced frames. Jitter and shimmer require YIN's period detail and stay
// zero under the fallback tracker.
type Extractor struct {
	cfg      *ExtractorConfig
	energy   *Energy
	zcr      *ZeroCrossing
	rate     *Rate
	trackers []Tracker
}

// NewExtractor creates an extractor. A nil config selects the defaults.
func NewExtractor(cfg *ExtractorConfig) *Extractor {
	if cfg == nil {
		cfg = DefaultExtractorConfig()
	}
	return &Extractor{
		cfg:    cfg,
		energy: NewEnergy(cfg.FrameSize, cfg.HopSize),
		zcr:    NewZeroCrossing(cfg.FrameSize, cfg.HopSize),
		rate:   NewRate(),
		trackers: []Tracker{
			NewYinTracker(cfg.FrameSize, cfg.HopSize),
			NewSpectralTracker(cfg.FrameSize, cfg.HopSize),
		},
	}
}

// Extract computes features for the span [start, end] of the source. Audio
// that cannot be decoded yields the empty vector with the cause recorded in
// Failures; the caller decides whether that is fatal.
func (e *Extractor) Extract(source SegmentSource, start, end float64) Result {
	pcm, sampleRate, err := source.Slice(start, end)
	if err != nil {
		logging.Warn("Segment decode failed, emitting empty features", logging.Fields{
			"start": start,
			"end":   end,
			"error": err.Error(),
		})
		return Result{
			Features: EmptyFeatureVector(),
			Failures: map[string]string{"decode": err.Error()},
		}
	}
	if len(pcm) == 0 || sampleRate <= 0 {
		return Result{
			Features: EmptyFeatureVector(),
			Failures: map[string]string{"decode": "no samples in span"},
		}
	}

	return e.ExtractPCM(pcm, sampleRate)
}

// ExtractPCM computes features directly from decoded samples.
func (e *Extractor) ExtractPCM(pcm []float64, sampleRate int) Result {
	features := EmptyFeatureVector()
	failures := make(map[string]string)

	features.Duration = float64(len(pcm)) / float64(sampleRate)
	features.MeanRMS, features.RMSStd = e.energy.Statistics(pcm)
	features.ZCRMean = e.zcr.MeanRate(pcm)
	features.TempoEstimate = e.rate.TempoEstimate(pcm, sampleRate)
	features.SpeakingRate = e.rate.SpeakingRate(pcm, sampleRate)

	e.extractPitch(pcm, sampleRate, &features, failures)

	if len(failures) == 0 {
		failures = nil
	}
	return Result{Features: features, Failures: failures}
}

// extractPitch runs the tiered trackers and fills the F0 fields plus jitter
// and shimmer.
func (e *Extractor) extractPitch(pcm []float64, sampleRate int, features *FeatureVector, failures map[string]string) {
	for tier, tracker := range e.trackers {
		contour := tracker.Track(pcm, sampleRate)

		voiced := make([]float64, 0, len(contour))
		voicedIdx := make([]int, 0, len(contour))
		for i, f0 := range contour {
			if f0 > 0 {
				voiced = append(voiced, f0)
				voicedIdx = append(voicedIdx, i)
			}
		}
		if len(voiced) == 0 {
			continue
		}

		if tier > 0 {
			logging.Debug("Pitch tracker fallback engaged", logging.Fields{
				"tracker": tracker.Name(),
			})
		}

		features.MeanF0 = stat.Mean(voiced, nil)
		features.MedianF0 = median(voiced)
		if len(voiced) > 1 {
			features.F0Std = stat.StdDev(voiced, nil)
		}
		features.F0Contour = downsampleContour(voiced, e.cfg.ContourPoints)

		if tracker.Name() == "yin" {
			features.Jitter, features.Shimmer = e.voiceQuality(pcm, sampleRate, voiced, voicedIdx)
		}
		return
	}

	failures["f0"] = fmt.Sprintf("no voiced frames found by %d trackers", len(e.trackers))
}

// voiceQuality derives jitter from voiced frame periods and shimmer from the
// RMS amplitude of the same frames.
func (e *Extractor) voiceQuality(pcm []float64, sampleRate int, voiced []float64, voicedIdx []int) (jitter, shimmer float64) {
	periods := make([]float64, len(voiced))
	for i, f0 := range voiced {
		periods[i] = float64(sampleRate) / f0
	}

	amplitudes := make([]float64, 0, len(voicedIdx))
	for _, idx := range voicedIdx {
		start := idx * e.cfg.HopSize
		end := start + e.cfg.FrameSize
		if end > len(pcm) {
			end = len(pcm)
		}
		if start >= end {
			continue
		}
		amplitudes = append(amplitudes, rms(pcm[start:end]))
	}

	return jitterPercent(periods), shimmerPercent(amplitudes)
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return stat.Quantile(0.5, stat.Empirical, sorted, nil)
}
