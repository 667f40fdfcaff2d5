package prosody

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
)

// Tracker estimates a per-frame fundamental frequency contour. Unvoiced
// frames and estimates outside the configured range report 0.
type Tracker interface {
	Name() string
	Track(signal []float64, sampleRate int) []float64
}

// YinTracker implements the YIN pitch estimator over overlapping frames.
//
// References:
// - de Cheveigné, A., Kawahara, H. (2002). "YIN, a fundamental frequency estimator for speech and music"
type YinTracker struct {
	frameSize int
	hopSize   int
	minFreq   float64
	maxFreq   float64
	threshold float64
}

// NewYinTracker creates a YIN tracker with defaults suited to speech.
func NewYinTracker(frameSize, hopSize int) *YinTracker {
	if frameSize <= 0 {
		frameSize = 1024
	}
	if hopSize <= 0 {
		hopSize = 512
	}
	return &YinTracker{
		frameSize: frameSize,
		hopSize:   hopSize,
		minFreq:   65.0,
		maxFreq:   1000.0,
		threshold: 0.15,
	}
}

// Name implements Tracker.
func (t *YinTracker) Name() string { return "yin" }

// Track implements Tracker.
func (t *YinTracker) Track(signal []float64, sampleRate int) []float64 {
	if len(signal) < t.frameSize || sampleRate <= 0 {
		return []float64{}
	}

	numFrames := (len(signal)-t.frameSize)/t.hopSize + 1
	contour := make([]float64, 0, numFrames)
	for i := 0; i < numFrames; i++ {
		start := i * t.hopSize
		frame := signal[start : start+t.frameSize]
		contour = append(contour, t.pitchForFrame(frame, sampleRate))
	}
	return contour
}

// pitchForFrame runs YIN on one frame: difference function, cumulative mean
// normalized difference, first local minimum below the threshold, then
// parabolic interpolation for sub-sample period accuracy.
func (t *YinTracker) pitchForFrame(frame []float64, sampleRate int) float64 {
	n := len(frame)
	halfN := n / 2

	diff := make([]float64, halfN)
	for tau := 0; tau < halfN; tau++ {
		sum := 0.0
		for j := 0; j < halfN; j++ {
			delta := frame[j] - frame[j+tau]
			sum += delta * delta
		}
		diff[tau] = sum
	}

	cmndf := make([]float64, halfN)
	cmndf[0] = 1.0
	runningSum := 0.0
	for tau := 1; tau < halfN; tau++ {
		runningSum += diff[tau]
		if runningSum == 0 {
			cmndf[tau] = 1.0
			continue
		}
		cmndf[tau] = diff[tau] / (runningSum / float64(tau))
	}

	minTau := -1
	for tau := 1; tau < halfN-1; tau++ {
		if cmndf[tau] < t.threshold && cmndf[tau] < cmndf[tau+1] {
			minTau = tau
			break
		}
	}
	if minTau <= 0 {
		return 0
	}

	period := parabolicInterpolation(cmndf, minTau)
	if period <= 0 {
		return 0
	}
	frequency := float64(sampleRate) / period
	if frequency < t.minFreq || frequency > t.maxFreq {
		return 0
	}
	return frequency
}

// SpectralTracker is the fallback pitch estimator: per-frame FFT peak picking
// with a Hann window. It is coarser than YIN and carries no period-level
// detail, so jitter and shimmer are not derivable from it.
type SpectralTracker struct {
	frameSize int
	hopSize   int
	minFreq   float64
	maxFreq   float64
}

// NewSpectralTracker creates the FFT peak tracker.
func NewSpectralTracker(frameSize, hopSize int) *SpectralTracker {
	if frameSize <= 0 {
		frameSize = 1024
	}
	if hopSize <= 0 {
		hopSize = 512
	}
	return &SpectralTracker{
		frameSize: frameSize,
		hopSize:   hopSize,
		minFreq:   65.0,
		maxFreq:   1000.0,
	}
}

// Name implements Tracker.
func (t *SpectralTracker) Name() string { return "spectral" }

// Track implements Tracker.
func (t *SpectralTracker) Track(signal []float64, sampleRate int) []float64 {
	if len(signal) < t.frameSize || sampleRate <= 0 {
		return []float64{}
	}

	window := hannWindow(t.frameSize)
	numFrames := (len(signal)-t.frameSize)/t.hopSize + 1
	contour := make([]float64, 0, numFrames)

	windowed := make([]float64, t.frameSize)
	for i := 0; i < numFrames; i++ {
		start := i * t.hopSize
		frame := signal[start : start+t.frameSize]
		for j := range frame {
			windowed[j] = frame[j] * window[j]
		}
		contour = append(contour, t.peakFrequency(windowed, sampleRate))
	}
	return contour
}

// peakFrequency finds the dominant spectral peak within the speech range.
// Frames whose peak does not stand out from the average magnitude are
// treated as unvoiced.
func (t *SpectralTracker) peakFrequency(frame []float64, sampleRate int) float64 {
	spectrum := fft.FFTReal(frame)
	half := len(spectrum) / 2
	if half < 3 {
		return 0
	}

	magnitudes := make([]float64, half)
	total := 0.0
	for i := 0; i < half; i++ {
		magnitudes[i] = math.Hypot(real(spectrum[i]), imag(spectrum[i]))
		total += magnitudes[i]
	}
	meanMag := total / float64(half)

	binHz := float64(sampleRate) / float64(len(frame))
	minBin := int(t.minFreq / binHz)
	maxBin := int(t.maxFreq / binHz)
	if minBin < 1 {
		minBin = 1
	}
	if maxBin >= half {
		maxBin = half - 1
	}

	peakBin := -1
	peakMag := 0.0
	for bin := minBin; bin <= maxBin; bin++ {
		if magnitudes[bin] > peakMag {
			peakMag = magnitudes[bin]
			peakBin = bin
		}
	}
	if peakBin < 0 || peakMag < 1e-9 || peakMag < 3.0*meanMag {
		return 0
	}

	return parabolicInterpolation(magnitudes, peakBin) * binHz
}

// parabolicInterpolation refines a peak or trough location to sub-bin
// accuracy from its two neighbors.
func parabolicInterpolation(data []float64, peakIdx int) float64 {
	if peakIdx <= 0 || peakIdx >= len(data)-1 {
		return float64(peakIdx)
	}

	y1 := data[peakIdx-1]
	y2 := data[peakIdx]
	y3 := data[peakIdx+1]

	a := (y1 - 2*y2 + y3) / 2
	b := (y3 - y1) / 2
	if a == 0 {
		return float64(peakIdx)
	}
	return float64(peakIdx) - b/(2*a)
}

func hannWindow(size int) []float64 {
	window := make([]float64, size)
	for i := range window {
		window[i] = 0.5 * (1.0 - math.Cos(2.0*math.Pi*float64(i)/float64(size-1)))
	}
	return window
}
