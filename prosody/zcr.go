package prosody

import (
	"gonum.org/v1/gonum/stat"
)

// ZeroCrossing computes the normalized zero crossing rate over overlapping
// frames. High rates indicate fricatives and unvoiced speech, low rates
// voiced speech.
type ZeroCrossing struct {
	frameSize int
	hopSize   int
}

// NewZeroCrossing creates a zero crossing rate calculator.
func NewZeroCrossing(frameSize, hopSize int) *ZeroCrossing {
	return &ZeroCrossing{frameSize: frameSize, hopSize: hopSize}
}

// ComputeFrame calculates the normalized crossing rate of a single frame,
// in [0, 1] where 1 is a sign change at every sample.
func (z *ZeroCrossing) ComputeFrame(frame []float64) float64 {
	if len(frame) < 2 {
		return 0
	}
	crossings := 0
	for i := 1; i < len(frame); i++ {
		if (frame[i-1] >= 0 && frame[i] < 0) || (frame[i-1] < 0 && frame[i] >= 0) {
			crossings++
		}
	}
	return float64(crossings) / float64(len(frame)-1)
}

// MeanRate calculates the mean normalized crossing rate over all frames of
// the signal.
func (z *ZeroCrossing) MeanRate(signal []float64) float64 {
	if len(signal) == 0 || z.frameSize <= 0 || z.hopSize <= 0 {
		return 0
	}
	if len(signal) < z.frameSize {
		return z.ComputeFrame(signal)
	}

	numFrames := (len(signal)-z.frameSize)/z.hopSize + 1
	rates := make([]float64, 0, numFrames)
	for i := 0; i < numFrames; i++ {
		start := i * z.hopSize
		end := start + z.frameSize
		if end > len(signal) {
			break
		}
		rates = append(rates, z.ComputeFrame(signal[start:end]))
	}
	if len(rates) == 0 {
		return 0
	}
	return stat.Mean(rates, nil)
}
