package prosody

import (
	"errors"
	"math"
	"testing"
)

const testSampleRate = 22050

// generateSine produces a mono sine wave test signal.
func generateSine(freq float64, duration float64, sampleRate int, amplitude float64) []float64 {
	numSamples := int(duration * float64(sampleRate))
	samples := make([]float64, numSamples)
	for i := range samples {
		samples[i] = amplitude * math.Sin(2.0*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return samples
}

type sliceSource struct {
	pcm        []float64
	sampleRate int
	err        error
}

func (s *sliceSource) Slice(start, end float64) ([]float64, int, error) {
	if s.err != nil {
		return nil, 0, s.err
	}
	return s.pcm, s.sampleRate, nil
}

func TestExtractPCMSineTone(t *testing.T) {
	e := NewExtractor(nil)
	signal := generateSine(220.0, 1.0, testSampleRate, 0.5)

	result := e.ExtractPCM(signal, testSampleRate)
	f := result.Features

	if math.Abs(f.Duration-1.0) > 0.01 {
		t.Errorf("Duration = %f, want ~1.0", f.Duration)
	}
	// RMS of a 0.5 amplitude sine is 0.5/sqrt(2).
	wantRMS := 0.5 / math.Sqrt2
	if math.Abs(f.MeanRMS-wantRMS) > 0.02 {
		t.Errorf("MeanRMS = %f, want ~%f", f.MeanRMS, wantRMS)
	}
	if f.RMSStd > 0.05 {
		t.Errorf("RMSStd = %f, want near 0 for a steady tone", f.RMSStd)
	}
	if math.Abs(f.MeanF0-220.0) > 5.0 {
		t.Errorf("MeanF0 = %f, want ~220", f.MeanF0)
	}
	if math.Abs(f.MedianF0-220.0) > 5.0 {
		t.Errorf("MedianF0 = %f, want ~220", f.MedianF0)
	}
	if f.F0Std > 5.0 {
		t.Errorf("F0Std = %f, want near 0 for a steady tone", f.F0Std)
	}
	if len(f.F0Contour) == 0 {
		t.Error("F0Contour should not be empty for a voiced tone")
	}
	// A 220 Hz sine crosses zero 440 times per second.
	wantZCR := 440.0 / float64(testSampleRate)
	if math.Abs(f.ZCRMean-wantZCR) > wantZCR*0.2 {
		t.Errorf("ZCRMean = %f, want ~%f", f.ZCRMean, wantZCR)
	}
	// A perfectly steady tone has almost no cycle-to-cycle variation.
	if f.Jitter > 5.0 {
		t.Errorf("Jitter = %f, want small for a steady tone", f.Jitter)
	}
	if f.Shimmer > 5.0 {
		t.Errorf("Shimmer = %f, want small for a steady tone", f.Shimmer)
	}
	if len(result.Failures) != 0 {
		t.Errorf("unexpected failures %v", result.Failures)
	}
}

func TestExtractPCMSilence(t *testing.T) {
	e := NewExtractor(nil)
	silence := make([]float64, testSampleRate)

	result := e.ExtractPCM(silence, testSampleRate)
	f := result.Features

	if f.MeanRMS != 0 {
		t.Errorf("MeanRMS = %f, want 0 for silence", f.MeanRMS)
	}
	if f.MeanF0 != 0 || f.MedianF0 != 0 {
		t.Errorf("F0 stats = %f/%f, want 0 for silence", f.MeanF0, f.MedianF0)
	}
	if len(f.F0Contour) != 0 {
		t.Errorf("F0Contour = %v, want empty for silence", f.F0Contour)
	}
	// Pitch failure is captured but the energy features survive.
	if _, ok := result.Failures["f0"]; !ok {
		t.Error("expected an f0 failure entry for silence")
	}
	if math.Abs(f.Duration-1.0) > 0.01 {
		t.Errorf("Duration = %f, want ~1.0 even when pitch fails", f.Duration)
	}
}

func TestExtractDecodeError(t *testing.T) {
	e := NewExtractor(nil)
	source := &sliceSource{err: errors.New("ffmpeg exploded")}

	result := e.Extract(source, 0, 1)
	if result.Failures["decode"] == "" {
		t.Fatal("expected decode failure to be recorded")
	}

	empty := EmptyFeatureVector()
	f := result.Features
	if f.Duration != empty.Duration || f.MeanRMS != empty.MeanRMS || f.MeanF0 != empty.MeanF0 {
		t.Errorf("features = %+v, want empty sentinel", f)
	}
	if f.F0Contour == nil || len(f.F0Contour) != 0 {
		t.Errorf("F0Contour = %v, want empty non-nil slice", f.F0Contour)
	}
}

func TestExtractEmptySpan(t *testing.T) {
	e := NewExtractor(nil)
	source := &sliceSource{pcm: []float64{}, sampleRate: testSampleRate}

	result := e.Extract(source, 5, 5)
	if result.Failures["decode"] == "" {
		t.Error("expected decode failure for empty span")
	}
	if result.Features.Duration != 0 {
		t.Errorf("Duration = %f, want 0", result.Features.Duration)
	}
}

func TestExtractViaSource(t *testing.T) {
	e := NewExtractor(nil)
	source := &sliceSource{
		pcm:        generateSine(330.0, 0.8, testSampleRate, 0.4),
		sampleRate: testSampleRate,
	}

	result := e.Extract(source, 0, 0.8)
	if math.Abs(result.Features.MeanF0-330.0) > 8.0 {
		t.Errorf("MeanF0 = %f, want ~330", result.Features.MeanF0)
	}
}

func TestDownsampleContourCap(t *testing.T) {
	long := make([]float64, 100)
	for i := range long {
		long[i] = float64(i)
	}

	out := downsampleContour(long, 20)
	if len(out) != 20 {
		t.Errorf("len = %d, want 20 for 100 input points", len(out))
	}
	if out[0] != 0 || out[1] != 5 {
		t.Errorf("stride wrong: out[0]=%f out[1]=%f", out[0], out[1])
	}

	// Lengths just over the cap must still come out at or under it.
	for _, n := range []int{21, 30, 39} {
		in := make([]float64, n)
		out = downsampleContour(in, 20)
		if len(out) > 20 {
			t.Errorf("len = %d, want <= 20 for %d input points", len(out), n)
		}
	}

	short := []float64{1, 2, 3}
	out = downsampleContour(short, 20)
	if len(out) != 3 {
		t.Errorf("short contour should pass through, got %d points", len(out))
	}

	if got := downsampleContour(nil, 20); len(got) != 0 {
		t.Errorf("nil contour should produce empty slice, got %v", got)
	}
}

func TestSpeakingRatePulses(t *testing.T) {
	// Build 2 seconds with 6 energy bursts: roughly 3 onsets per second.
	sampleRate := testSampleRate
	signal := make([]float64, 2*sampleRate)
	burst := generateSine(200.0, 0.15, sampleRate, 0.8)
	for b := 0; b < 6; b++ {
		offset := b * sampleRate / 3
		for i, s := range burst {
			if offset+i < len(signal) {
				signal[offset+i] = s
			}
		}
	}

	rate := NewRate().SpeakingRate(signal, sampleRate)
	if rate < 1.5 || rate > 4.5 {
		t.Errorf("SpeakingRate = %f, want roughly 3 onsets/sec", rate)
	}
}
