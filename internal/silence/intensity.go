package silence

import (
	"errors"
	"fmt"
)

// ErrUnknownIntensity is returned for intensity selectors outside the
// known set.
var ErrUnknownIntensity = errors.New("silence: unknown intensity")

// Intensity is the coarse aggressiveness selector exposed to users and
// agent tools. Higher intensities use a higher RMS threshold and so cut
// more, including quiet speech.
type Intensity string

// Supported intensities.
const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

// intensityThresholds maps each selector to its RMS threshold.
var intensityThresholds = map[Intensity]float64{
	IntensityLow:    0.005,
	IntensityMedium: 0.02,
	IntensityHigh:   0.05,
}

// OptionsForIntensity translates an intensity selector into analysis
// options, keeping the default minimum-silence gap.
func OptionsForIntensity(i Intensity) (Options, error) {
	threshold, ok := intensityThresholds[i]
	if !ok {
		return Options{}, fmt.Errorf("%w: %q", ErrUnknownIntensity, i)
	}
	return Options{Threshold: threshold, MinSilence: DefaultMinSilence}, nil
}
