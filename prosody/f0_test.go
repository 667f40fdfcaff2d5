package prosody

import (
	"math"
	"testing"
)

func voicedValues(contour []float64) []float64 {
	var voiced []float64
	for _, f0 := range contour {
		if f0 > 0 {
			voiced = append(voiced, f0)
		}
	}
	return voiced
}

func TestYinTrackerSine(t *testing.T) {
	tracker := NewYinTracker(1024, 512)

	for _, freq := range []float64{110.0, 220.0, 440.0} {
		signal := generateSine(freq, 0.5, testSampleRate, 0.5)
		voiced := voicedValues(tracker.Track(signal, testSampleRate))
		if len(voiced) == 0 {
			t.Errorf("no voiced frames for %f Hz sine", freq)
			continue
		}
		mean := 0.0
		for _, f0 := range voiced {
			mean += f0
		}
		mean /= float64(len(voiced))
		if math.Abs(mean-freq) > freq*0.03 {
			t.Errorf("YIN mean F0 = %f, want ~%f", mean, freq)
		}
	}
}

func TestYinTrackerSilence(t *testing.T) {
	tracker := NewYinTracker(1024, 512)
	silence := make([]float64, testSampleRate/2)

	if voiced := voicedValues(tracker.Track(silence, testSampleRate)); len(voiced) != 0 {
		t.Errorf("silence produced %d voiced frames", len(voiced))
	}
}

func TestYinTrackerShortSignal(t *testing.T) {
	tracker := NewYinTracker(1024, 512)
	if contour := tracker.Track(make([]float64, 100), testSampleRate); len(contour) != 0 {
		t.Errorf("sub-frame signal should produce empty contour, got %d frames", len(contour))
	}
}

func TestSpectralTrackerSine(t *testing.T) {
	tracker := NewSpectralTracker(1024, 512)

	signal := generateSine(220.0, 0.5, testSampleRate, 0.5)
	voiced := voicedValues(tracker.Track(signal, testSampleRate))
	if len(voiced) == 0 {
		t.Fatal("no voiced frames for 220 Hz sine")
	}
	mean := 0.0
	for _, f0 := range voiced {
		mean += f0
	}
	mean /= float64(len(voiced))
	// Bin resolution at 22.05 kHz with 1024-sample frames is ~21.5 Hz;
	// parabolic interpolation tightens that considerably.
	if math.Abs(mean-220.0) > 11.0 {
		t.Errorf("spectral mean F0 = %f, want ~220", mean)
	}
}

func TestSpectralTrackerRejectsFlatSpectrum(t *testing.T) {
	tracker := NewSpectralTracker(1024, 512)
	silence := make([]float64, testSampleRate/2)

	if voiced := voicedValues(tracker.Track(silence, testSampleRate)); len(voiced) != 0 {
		t.Errorf("silence produced %d voiced frames", len(voiced))
	}
}

func TestJitterShimmerSteadySequences(t *testing.T) {
	steady := []float64{100, 100, 100, 100}
	if j := jitterPercent(steady); j != 0 {
		t.Errorf("jitter of steady periods = %f, want 0", j)
	}

	varying := []float64{100, 110, 100, 110}
	if j := jitterPercent(varying); j <= 0 {
		t.Errorf("jitter of varying periods = %f, want > 0", j)
	}

	if s := shimmerPercent([]float64{0.5, 0.5, 0.5}); s != 0 {
		t.Errorf("shimmer of steady amplitudes = %f, want 0", s)
	}
	if s := shimmerPercent([]float64{0.5}); s != 0 {
		t.Errorf("shimmer of a single amplitude = %f, want 0", s)
	}
}
