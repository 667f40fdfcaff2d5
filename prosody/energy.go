package prosody

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Energy computes short-time RMS energy over overlapping frames.
type Energy struct {
	frameSize int
	hopSize   int
}

// NewEnergy creates an energy calculator.
func NewEnergy(frameSize, hopSize int) *Energy {
	return &Energy{frameSize: frameSize, hopSize: hopSize}
}

// ComputeRMS calculates the RMS energy of each overlapping frame. Signals
// shorter than one frame produce a single RMS value over the whole signal.
func (e *Energy) ComputeRMS(signal []float64) []float64 {
	if len(signal) == 0 || e.frameSize <= 0 || e.hopSize <= 0 {
		return []float64{}
	}
	if len(signal) < e.frameSize {
		return []float64{rms(signal)}
	}

	numFrames := (len(signal)-e.frameSize)/e.hopSize + 1
	energies := make([]float64, 0, numFrames)

	for i := 0; i < numFrames; i++ {
		start := i * e.hopSize
		end := start + e.frameSize
		if end > len(signal) {
			break
		}
		energies = append(energies, rms(signal[start:end]))
	}

	return energies
}

// Statistics returns mean and standard deviation of frame energies.
func (e *Energy) Statistics(signal []float64) (mean, std float64) {
	energies := e.ComputeRMS(signal)
	if len(energies) == 0 {
		return 0, 0
	}
	mean = stat.Mean(energies, nil)
	if len(energies) > 1 {
		std = stat.StdDev(energies, nil)
	}
	return mean, std
}

func rms(frame []float64) float64 {
	if len(frame) == 0 {
		return 0
	}
	sumSquares := 0.0
	for _, sample := range frame {
		sumSquares += sample * sample
	}
	return math.Sqrt(sumSquares / float64(len(frame)))
}
