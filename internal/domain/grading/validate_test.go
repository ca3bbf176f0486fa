package grading

import (
	"errors"
	"testing"

	"github.com/phrazzld/gradecalc/internal/domain"
)

func TestValidateSubjects(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		rows     []domain.GradeRow
		wantErr  bool
		category domain.Category
		field    string
	}{
		{
			name: "valid rows",
			rows: []domain.GradeRow{
				{ID: "1", Name: "Maths", Grade: "A", Credits: 3},
				{ID: "2", Name: "Art", Grade: "F", Credits: 1},
			},
		},
		{
			name:     "empty name",
			rows:     []domain.GradeRow{{ID: "1", Name: "", Grade: "A", Credits: 3}},
			wantErr:  true,
			category: domain.CategoryMissingFields,
			field:    "name",
		},
		{
			name:     "whitespace name",
			rows:     []domain.GradeRow{{ID: "1", Name: "   ", Grade: "A", Credits: 3}},
			wantErr:  true,
			category: domain.CategoryMissingFields,
			field:    "name",
		},
		{
			name:     "zero credits",
			rows:     []domain.GradeRow{{ID: "1", Name: "X", Grade: "A", Credits: 0}},
			wantErr:  true,
			category: domain.CategoryMissingFields,
			field:    "credits",
		},
		{
			name:     "negative credits",
			rows:     []domain.GradeRow{{ID: "1", Name: "X", Grade: "A", Credits: -1}},
			wantErr:  true,
			category: domain.CategoryMissingFields,
			field:    "credits",
		},
		{
			name:     "missing grade",
			rows:     []domain.GradeRow{{ID: "1", Name: "X", Credits: 3}},
			wantErr:  true,
			category: domain.CategoryMissingFields,
			field:    "grade",
		},
		{
			name:     "empty list",
			rows:     nil,
			wantErr:  true,
			category: domain.CategoryMissingFields,
		},
		{
			name: "one bad row fails the list",
			rows: []domain.GradeRow{
				{ID: "1", Name: "Maths", Grade: "A", Credits: 3},
				{ID: "2", Name: "Art", Grade: "B", Credits: 0},
			},
			wantErr:  true,
			category: domain.CategoryMissingFields,
			field:    "credits",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateSubjects(tc.rows)
			checkValidation(t, err, tc.wantErr, tc.category, tc.field)
		})
	}
}

func TestValidateTerms(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		rows     []domain.TermRow
		wantErr  bool
		category domain.Category
		field    string
	}{
		{
			name: "valid rows including bounds",
			rows: []domain.TermRow{
				{ID: "1", Name: "Semester 1", GPA: 0, Credits: 20},
				{ID: "2", Name: "Semester 2", GPA: 10, Credits: 18},
			},
		},
		{
			name:     "gpa above range",
			rows:     []domain.TermRow{{ID: "1", Name: "X", GPA: 11, Credits: 3}},
			wantErr:  true,
			category: domain.CategoryOutOfRange,
			field:    "gpa",
		},
		{
			name:     "gpa below range",
			rows:     []domain.TermRow{{ID: "1", Name: "X", GPA: -0.5, Credits: 3}},
			wantErr:  true,
			category: domain.CategoryOutOfRange,
			field:    "gpa",
		},
		{
			name:     "missing credits",
			rows:     []domain.TermRow{{ID: "1", Name: "X", GPA: 8}},
			wantErr:  true,
			category: domain.CategoryMissingFields,
			field:    "credits",
		},
		{
			name:     "missing name",
			rows:     []domain.TermRow{{ID: "1", GPA: 8, Credits: 3}},
			wantErr:  true,
			category: domain.CategoryMissingFields,
			field:    "name",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateTerms(tc.rows)
			checkValidation(t, err, tc.wantErr, tc.category, tc.field)
		})
	}
}

func checkValidation(t *testing.T, err error, wantErr bool, category domain.Category, field string) {
	t.Helper()

	if !wantErr {
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		return
	}
	if err == nil {
		t.Fatal("expected a validation error, got nil")
	}
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected error to wrap ErrValidation, got %v", err)
	}
	ve, ok := domain.AsValidationError(err)
	if !ok {
		t.Fatalf("expected *domain.ValidationError, got %T", err)
	}
	if ve.Category != category {
		t.Errorf("category = %q, want %q", ve.Category, category)
	}
	if ve.Field != field {
		t.Errorf("field = %q, want %q", ve.Field, field)
	}
}
