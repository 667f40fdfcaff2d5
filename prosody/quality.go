package prosody

import (
	"math"
)

// jitterPercent computes cycle-to-cycle pitch period irregularity as a
// percentage: the mean absolute difference between consecutive period
// lengths, relative to the mean period length.
func jitterPercent(periods []float64) float64 {
	if len(periods) < 2 {
		return 0
	}

	avg := 0.0
	for _, p := range periods {
		avg += p
	}
	avg /= float64(len(periods))
	if avg == 0 {
		return 0
	}

	sum := 0.0
	for i := 1; i < len(periods); i++ {
		sum += math.Abs(periods[i] - periods[i-1])
	}

	return (sum / float64(len(periods)-1)) / avg * 100.0
}

// shimmerPercent computes cycle-to-cycle amplitude irregularity as a
// percentage, analogous to jitterPercent over RMS amplitudes.
func shimmerPercent(amplitudes []float64) float64 {
	if len(amplitudes) < 2 {
		return 0
	}

	avg := 0.0
	for _, a := range amplitudes {
		avg += a
	}
	avg /= float64(len(amplitudes))
	if avg == 0 {
		return 0
	}

	sum := 0.0
	for i := 1; i < len(amplitudes); i++ {
		sum += math.Abs(amplitudes[i] - amplitudes[i-1])
	}

	return (sum / float64(len(amplitudes)-1)) / avg * 100.0
}
