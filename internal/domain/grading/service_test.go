package grading

import (
	"errors"
	"testing"
	"time"

	"github.com/phrazzld/gradecalc/internal/domain"
)

func TestServiceEvaluate(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2025, time.April, 1, 12, 0, 0, 0, time.UTC)
	svc := NewServiceWithClock(func() time.Time { return fixed })

	res, err := svc.EvaluateSubjects([]domain.GradeRow{
		{ID: "1", Name: "Maths", Grade: "B+", Credits: 3},
		{ID: "2", Name: "History", Grade: "C+", Credits: 2},
	})
	if err != nil {
		t.Fatalf("EvaluateSubjects() error = %v", err)
	}
	if res.Rounded != 7.2 || res.Band != "" || !res.ComputedAt.Equal(fixed) {
		t.Errorf("EvaluateSubjects() = %+v", res)
	}

	res, err = svc.EvaluateTerms([]domain.TermRow{
		{ID: "1", Name: "Semester 1", GPA: 9.2, Credits: 20},
		{ID: "2", Name: "Semester 2", GPA: 8.8, Credits: 20},
	})
	if err != nil {
		t.Fatalf("EvaluateTerms() error = %v", err)
	}
	if res.Rounded != 9 || res.Band != domain.BandExcellent {
		t.Errorf("EvaluateTerms() = %+v", res)
	}

	_, err = svc.EvaluateTerms([]domain.TermRow{{ID: "1", Name: "X", GPA: 11, Credits: 3}})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}
