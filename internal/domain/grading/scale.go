package grading

import "github.com/phrazzld/gradecalc/internal/domain"

// scale is the fixed 10-point grading scale, best grade first.
var scale = [...]domain.GradePoint{
	{Grade: "A+", Points: 10},
	{Grade: "A", Points: 9},
	{Grade: "B+", Points: 8},
	{Grade: "B", Points: 7},
	{Grade: "C+", Points: 6},
	{Grade: "C", Points: 5},
	{Grade: "D", Points: 4},
	{Grade: "F", Points: 0},
}

var points = func() map[string]float64 {
	m := make(map[string]float64, len(scale))
	for _, gp := range scale {
		m[gp.Grade] = gp.Points
	}
	return m
}()

// Resolve maps a letter grade to its quality score.
// Unknown grades resolve to 0 rather than failing.
func Resolve(grade string) float64 {
	return points[grade]
}

// IsKnownGrade reports whether grade is on the scale.
func IsKnownGrade(grade string) bool {
	_, ok := points[grade]
	return ok
}

// Scale returns the grading scale, best grade first.
func Scale() []domain.GradePoint {
	out := make([]domain.GradePoint, len(scale))
	copy(out, scale[:])
	return out
}
