package grading

import (
	"math"

	"github.com/phrazzld/gradecalc/internal/domain"
)

// bandThresholds are inclusive lower bounds, checked top-down.
var bandThresholds = []struct {
	min  float64
	band domain.Band
}{
	{9, domain.BandExcellent},
	{8, domain.BandVeryGood},
	{7, domain.BandGood},
	{6, domain.BandAverage},
}

// Round2 rounds v to two decimal places, halves away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// BandFor classifies a CGPA. The first threshold v meets wins.
func BandFor(v float64) domain.Band {
	for _, t := range bandThresholds {
		if v >= t.min {
			return t.band
		}
	}
	return domain.BandNeedsImprovement
}

// Present rounds value for display and, when banded is set, attaches the band
// of the rounded value. ComputedAt is left for the caller to stamp.
func Present(value float64, banded bool) domain.Result {
	res := domain.Result{
		Value:   value,
		Rounded: Round2(value),
	}
	if banded {
		res.Band = BandFor(res.Rounded)
	}
	return res
}
