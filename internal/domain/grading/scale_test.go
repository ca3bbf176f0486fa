package grading

import "testing"

func TestResolve(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		grade    string
		expected float64
	}{
		{"A+", 10},
		{"A", 9},
		{"B+", 8},
		{"B", 7},
		{"C+", 6},
		{"C", 5},
		{"D", 4},
		{"F", 0},
		// unknown tokens fail open to zero
		{"Z", 0},
		{"", 0},
		{"a+", 0},
		{"A-", 0},
	}

	for _, tc := range testCases {
		t.Run(tc.grade, func(t *testing.T) {
			t.Parallel()
			if got := Resolve(tc.grade); got != tc.expected {
				t.Errorf("Resolve(%q) = %v, want %v", tc.grade, got, tc.expected)
			}
		})
	}
}

func TestIsKnownGrade(t *testing.T) {
	t.Parallel()
	if !IsKnownGrade("F") {
		t.Error("expected F to be a known grade")
	}
	if IsKnownGrade("E") {
		t.Error("expected E to be unknown")
	}
}

func TestScaleIsOrderedAndDetached(t *testing.T) {
	t.Parallel()

	s := Scale()
	if len(s) != 8 {
		t.Fatalf("expected 8 grades, got %d", len(s))
	}
	if s[0].Grade != "A+" || s[len(s)-1].Grade != "F" {
		t.Errorf("unexpected order: first %q, last %q", s[0].Grade, s[len(s)-1].Grade)
	}
	for i := 1; i < len(s); i++ {
		if s[i].Points >= s[i-1].Points {
			t.Errorf("scale not strictly descending at %d: %v >= %v", i, s[i].Points, s[i-1].Points)
		}
	}

	// Mutating the returned slice must not leak into the resolver.
	s[0].Points = 42
	if Resolve("A+") != 10 {
		t.Error("Scale() returned a slice sharing state with the resolver")
	}
}
