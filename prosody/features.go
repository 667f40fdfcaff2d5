package prosody

// FeatureVector holds the acoustic features extracted for one sentence span.
// All fields are always present in serialized output; a failed extraction
// produces the empty vector rather than omitting keys.
type FeatureVector struct {
	Duration      float64   `json:"duration"`
	MeanRMS       float64   `json:"mean_rms"`
	RMSStd        float64   `json:"rms_std"`
	ZCRMean       float64   `json:"zcr_mean"`
	MeanF0        float64   `json:"mean_f0"`
	MedianF0      float64   `json:"median_f0"`
	F0Std         float64   `json:"f0_std"`
	F0Contour     []float64 `json:"f0_contour"`
	TempoEstimate float64   `json:"tempo_estimate"`
	SpeakingRate  float64   `json:"speaking_rate"`
	Jitter        float64   `json:"jitter"`
	Shimmer       float64   `json:"shimmer"`
}

// EmptyFeatureVector is the sentinel for spans whose audio could not be
// analyzed: every numeric field zero and an empty (not nil) contour.
func EmptyFeatureVector() FeatureVector {
	return FeatureVector{F0Contour: []float64{}}
}

// downsampleContour caps a pitch contour at maxPoints by striding, keeping
// the overall shape.
func downsampleContour(contour []float64, maxPoints int) []float64 {
	if maxPoints <= 0 || len(contour) == 0 {
		return []float64{}
	}
	step := (len(contour) + maxPoints - 1) / maxPoints
	if step < 1 {
		step = 1
	}
	out := make([]float64, 0, maxPoints)
	for i := 0; i < len(contour); i += step {
		out = append(out, contour[i])
	}
	return out
}
