package domain

import (
	"errors"
	"math"
	"testing"
)

func TestClampCredits(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in       float64
		expected float64
	}{
		{3, 3},
		{0, 0},
		{-2, 0},
		{math.NaN(), 0},
		{math.Inf(1), 0},
		{math.Inf(-1), 0},
		{0.5, 0.5},
	}
	for _, tc := range testCases {
		if got := ClampCredits(tc.in); got != tc.expected {
			t.Errorf("ClampCredits(%v) = %v, want %v", tc.in, got, tc.expected)
		}
	}
}

func TestClampGPA(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in       float64
		expected float64
	}{
		{7.5, 7.5},
		{-1, 0},
		{11, 10},
		{math.NaN(), 0},
		{math.Inf(1), 10},
	}
	for _, tc := range testCases {
		if got := ClampGPA(tc.in); got != tc.expected {
			t.Errorf("ClampGPA(%v) = %v, want %v", tc.in, got, tc.expected)
		}
	}
}

func TestPatchApply(t *testing.T) {
	t.Parallel()

	name := "Maths"
	grade := "A"
	credits := -4.0
	row := GradeRow{ID: "1", Name: "old", Grade: "F", Credits: 2}

	got := row.Apply(SubjectPatch{Name: &name})
	if got.Name != "Maths" || got.Grade != "F" || got.Credits != 2 {
		t.Errorf("partial patch changed untouched fields: %+v", got)
	}
	if row.Name != "old" {
		t.Error("Apply mutated the receiver")
	}

	got = row.Apply(SubjectPatch{Grade: &grade, Credits: &credits})
	if got.Grade != "A" || got.Credits != 0 {
		t.Errorf("expected grade A and clamped credits, got %+v", got)
	}

	gpa := 12.0
	term := TermRow{ID: "1", Name: "Semester 1", GPA: 8, Credits: 20}.Apply(TermPatch{GPA: &gpa})
	if term.GPA != MaxGPA {
		t.Errorf("expected GPA clamped to %v, got %v", MaxGPA, term.GPA)
	}
}

func TestNewTermRow(t *testing.T) {
	t.Parallel()

	row := NewTermRow(3)
	if row.Name != "Semester 3" {
		t.Errorf("expected name %q, got %q", "Semester 3", row.Name)
	}
	if row.ID == "" || row.ID == DefaultRowID {
		t.Errorf("expected a generated ID, got %q", row.ID)
	}
	if row.GPA != 0 || row.Credits != 0 {
		t.Errorf("expected zero values, got %+v", row)
	}

	a, b := NewGradeRow(), NewGradeRow()
	if a.ID == b.ID {
		t.Error("expected distinct IDs for new rows")
	}
}

func TestDefaultRows(t *testing.T) {
	t.Parallel()

	subjects := DefaultGradeRows()
	if len(subjects) != 1 || subjects[0] != (GradeRow{ID: DefaultRowID}) {
		t.Errorf("unexpected default subject rows: %+v", subjects)
	}
	terms := DefaultTermRows()
	if len(terms) != 1 || terms[0] != (TermRow{ID: DefaultRowID}) {
		t.Errorf("unexpected default term rows: %+v", terms)
	}
}

func TestNormalizeGradeRows(t *testing.T) {
	t.Parallel()

	t.Run("empty becomes default", func(t *testing.T) {
		t.Parallel()
		rows, err := NormalizeGradeRows(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(rows) != 1 || rows[0].ID != DefaultRowID {
			t.Errorf("expected default list, got %+v", rows)
		}
	})

	t.Run("fills ids and clamps credits", func(t *testing.T) {
		t.Parallel()
		in := []GradeRow{{Name: "Maths", Grade: "A", Credits: -1}, {ID: "x", Credits: 3}}
		rows, err := NormalizeGradeRows(in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rows[0].ID == "" {
			t.Error("expected generated ID")
		}
		if rows[0].Credits != 0 {
			t.Errorf("expected clamped credits, got %v", rows[0].Credits)
		}
		if rows[1].ID != "x" {
			t.Errorf("expected ID to be kept, got %q", rows[1].ID)
		}
		if in[0].ID != "" {
			t.Error("NormalizeGradeRows mutated its input")
		}
	})

	t.Run("duplicate ids", func(t *testing.T) {
		t.Parallel()
		_, err := NormalizeGradeRows([]GradeRow{{ID: "a"}, {ID: "a"}})
		if !errors.Is(err, ErrDuplicateRowID) {
			t.Errorf("expected ErrDuplicateRowID, got %v", err)
		}
	})
}

func TestNormalizeTermRows(t *testing.T) {
	t.Parallel()

	rows, err := NormalizeTermRows([]TermRow{{ID: "a", Name: "S1", GPA: 14, Credits: math.NaN()}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0].GPA != MaxGPA || rows[0].Credits != 0 {
		t.Errorf("expected clamped values, got %+v", rows[0])
	}
}
