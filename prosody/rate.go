package prosody

import (
	"math"
)

// Rate estimates speaking rate and tempo from the energy envelope.
type Rate struct {
	energy *Energy
}

// NewRate creates a rate estimator.
func NewRate() *Rate {
	return &Rate{energy: NewEnergy(512, 256)}
}

// SpeakingRate estimates syllable-scale onsets per second. Onsets are peaks
// in the positive derivative of the RMS envelope, with an adaptive threshold
// and a 50ms minimum interval between onsets.
func (r *Rate) SpeakingRate(signal []float64, sampleRate int) float64 {
	if len(signal) == 0 || sampleRate <= 0 {
		return 0
	}
	duration := float64(len(signal)) / float64(sampleRate)
	if duration == 0 {
		return 0
	}

	envelope := r.energy.ComputeRMS(signal)
	if len(envelope) < 3 {
		return 0
	}

	diff := make([]float64, len(envelope)-1)
	for i := range diff {
		d := envelope[i+1] - envelope[i]
		if d > 0 {
			diff[i] = d
		}
	}

	onsets := findOnsetPeaks(diff, adaptiveThreshold(diff), 0.05, 256, sampleRate)
	return float64(len(onsets)) / duration
}

// TempoEstimate estimates a periodic rate in BPM from the autocorrelation of
// a coarse RMS envelope. Short or aperiodic signals return 0.
func (r *Rate) TempoEstimate(signal []float64, sampleRate int) float64 {
	if len(signal) == 0 || sampleRate <= 0 {
		return 0
	}

	frameSize := int(0.1 * float64(sampleRate))
	hopSize := frameSize / 4
	if frameSize <= 0 || hopSize <= 0 {
		return 0
	}

	envelope := NewEnergy(frameSize, hopSize).ComputeRMS(signal)
	if len(envelope) < 10 {
		return 0
	}

	autocorr := autocorrelate(envelope, len(envelope)/2)
	return tempoFromAutocorrelation(autocorr, hopSize, sampleRate)
}

// findOnsetPeaks finds local maxima above a threshold separated by at least
// minInterval seconds.
func findOnsetPeaks(flux []float64, threshold, minInterval float64, hopSize, sampleRate int) []int {
	if len(flux) < 3 {
		return []int{}
	}

	minIntervalFrames := int(minInterval * float64(sampleRate) / float64(hopSize))
	var peaks []int
	lastPeak := -minIntervalFrames

	for i := 1; i < len(flux)-1; i++ {
		if flux[i] > flux[i-1] &&
			flux[i] > flux[i+1] &&
			flux[i] >= threshold &&
			i-lastPeak >= minIntervalFrames {
			peaks = append(peaks, i)
			lastPeak = i
		}
	}
	return peaks
}

// adaptiveThreshold returns mean plus two standard deviations of the flux.
func adaptiveThreshold(flux []float64) float64 {
	if len(flux) == 0 {
		return 0
	}

	mean := 0.0
	for _, v := range flux {
		mean += v
	}
	mean /= float64(len(flux))

	variance := 0.0
	for _, v := range flux {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(flux))

	return mean + 2.0*math.Sqrt(variance)
}

func autocorrelate(signal []float64, maxLag int) []float64 {
	if maxLag > len(signal) {
		maxLag = len(signal)
	}

	autocorr := make([]float64, maxLag)
	for lag := 0; lag < maxLag; lag++ {
		sum := 0.0
		count := 0
		for i := 0; i < len(signal)-lag; i++ {
			sum += signal[i] * signal[i+lag]
			count++
		}
		if count > 0 {
			autocorr[lag] = sum / float64(count)
		}
	}

	if len(autocorr) > 0 && autocorr[0] > 0 {
		for i := range autocorr {
			autocorr[i] /= autocorr[0]
		}
	}
	return autocorr
}

// tempoFromAutocorrelation searches the 60-180 BPM range for the strongest
// periodicity peak.
func tempoFromAutocorrelation(autocorr []float64, hopSize, sampleRate int) float64 {
	if len(autocorr) < 10 {
		return 0
	}

	timePerFrame := float64(hopSize) / float64(sampleRate)
	minLag := int((60.0 / 180.0) / timePerFrame)
	maxLag := int(1.0 / timePerFrame)
	if minLag < 1 {
		minLag = 1
	}
	if maxLag >= len(autocorr) {
		maxLag = len(autocorr) - 1
	}

	maxVal := 0.0
	bestLag := 0
	for lag := minLag; lag <= maxLag; lag++ {
		if lag > 0 && lag < len(autocorr)-1 &&
			autocorr[lag] > autocorr[lag-1] &&
			autocorr[lag] > autocorr[lag+1] &&
			autocorr[lag] > maxVal {
			maxVal = autocorr[lag]
			bestLag = lag
		}
	}
	if bestLag == 0 {
		return 0
	}

	period := float64(bestLag) * timePerFrame
	return 60.0 / period
}
