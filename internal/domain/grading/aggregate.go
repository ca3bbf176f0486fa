package grading

import (
	"math"

	"github.com/phrazzld/gradecalc/internal/domain"
)

// Aggregate computes the credit-weighted average of rows. credits and scoreOf
// extract each row's weight and quality score. A list whose credits sum to
// zero (including an empty list) yields 0, as does a list whose sums
// overflow.
func Aggregate[R any](rows []R, credits func(R) float64, scoreOf func(R) float64) float64 {
	var totalCredits, totalPoints float64
	for _, r := range rows {
		c := credits(r)
		totalCredits += c
		totalPoints += c * scoreOf(r)
	}
	if !(totalCredits > 0) || math.IsInf(totalCredits, 0) || math.IsInf(totalPoints, 0) {
		return 0
	}
	avg := totalPoints / totalCredits
	if math.IsNaN(avg) {
		return 0
	}
	return avg
}

// GPA is the credit-weighted average grade point of a term's subjects.
func GPA(rows []domain.GradeRow) float64 {
	return Aggregate(rows,
		func(r domain.GradeRow) float64 { return r.Credits },
		func(r domain.GradeRow) float64 { return Resolve(r.Grade) },
	)
}

// CGPA is the credit-weighted average of term GPAs.
func CGPA(rows []domain.TermRow) float64 {
	return Aggregate(rows,
		func(r domain.TermRow) float64 { return r.Credits },
		func(r domain.TermRow) float64 { return r.GPA },
	)
}
