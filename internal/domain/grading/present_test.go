package grading

import (
	"math"
	"strconv"
	"testing"

	"github.com/phrazzld/gradecalc/internal/domain"
)

func TestBandFor(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		value    float64
		expected domain.Band
	}{
		{10, domain.BandExcellent},
		{9.0, domain.BandExcellent},
		{8.99, domain.BandVeryGood},
		{8, domain.BandVeryGood},
		{7.5, domain.BandGood},
		{7, domain.BandGood},
		{6.01, domain.BandAverage},
		{6, domain.BandAverage},
		{5.99, domain.BandNeedsImprovement},
		{0, domain.BandNeedsImprovement},
	}

	for _, tc := range testCases {
		if got := BandFor(tc.value); got != tc.expected {
			t.Errorf("BandFor(%v) = %q, want %q", tc.value, got, tc.expected)
		}
	}
}

func TestPresent(t *testing.T) {
	t.Parallel()

	res := Present(9.0, true)
	if res.Band != domain.BandExcellent {
		t.Errorf("Present(9.0).Band = %q, want %q", res.Band, domain.BandExcellent)
	}

	res = Present(8.99, true)
	if res.Band != domain.BandVeryGood {
		t.Errorf("Present(8.99).Band = %q, want %q", res.Band, domain.BandVeryGood)
	}

	res = Present(5.99, true)
	if res.Band != domain.BandNeedsImprovement {
		t.Errorf("Present(5.99).Band = %q, want %q", res.Band, domain.BandNeedsImprovement)
	}

	// Banding follows the displayed value.
	res = Present(8.996, true)
	if res.Rounded != 9 || res.Band != domain.BandExcellent {
		t.Errorf("Present(8.996) = %+v, want rounded 9 and excellent", res)
	}

	res = Present(7.2, false)
	if res.Band != "" {
		t.Errorf("unbanded result carries band %q", res.Band)
	}
	if res.Value != 7.2 || res.Rounded != 7.2 {
		t.Errorf("Present(7.2) = %+v", res)
	}
}

func TestRound2(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in       float64
		expected float64
	}{
		{7.2, 7.2},
		{7.125, 7.13},
		{8.333333, 8.33},
		{6.666666, 6.67},
		{0, 0},
		{10, 10},
	}
	for _, tc := range testCases {
		if got := Round2(tc.in); got != tc.expected {
			t.Errorf("Round2(%v) = %v, want %v", tc.in, got, tc.expected)
		}
	}
}

func TestRoundTripWithinHalfHundredth(t *testing.T) {
	t.Parallel()

	for i := 0; i <= 10000; i++ {
		v := float64(i) / 1000 * 1.0003
		rounded := Round2(v)
		reparsed, err := strconv.ParseFloat(strconv.FormatFloat(rounded, 'f', 2, 64), 64)
		if err != nil {
			t.Fatalf("failed to reparse %v: %v", rounded, err)
		}
		if math.Abs(reparsed-v) > 0.005+1e-9 {
			t.Fatalf("round trip of %v drifted to %v", v, reparsed)
		}
	}
}
