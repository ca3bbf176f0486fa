package grading

import (
	"time"

	"github.com/phrazzld/gradecalc/internal/domain"
)

// Service runs the full validate, aggregate and present pipeline for both
// calculators.
type Service interface {
	// EvaluateSubjects validates subject rows and returns their presented GPA.
	EvaluateSubjects(rows []domain.GradeRow) (*domain.Result, error)

	// EvaluateTerms validates term rows and returns their presented, banded CGPA.
	EvaluateTerms(rows []domain.TermRow) (*domain.Result, error)
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	now func() time.Time
}

// NewDefaultService creates a grading service stamping results with the current time
func NewDefaultService() Service {
	return &defaultService{now: time.Now}
}

// NewServiceWithClock creates a grading service with an injected clock
func NewServiceWithClock(now func() time.Time) Service {
	return &defaultService{now: now}
}

// EvaluateSubjects implements Service.
func (s *defaultService) EvaluateSubjects(rows []domain.GradeRow) (*domain.Result, error) {
	if err := ValidateSubjects(rows); err != nil {
		return nil, err
	}
	res := Present(GPA(rows), false)
	res.ComputedAt = s.now().UTC()
	return &res, nil
}

// EvaluateTerms implements Service.
func (s *defaultService) EvaluateTerms(rows []domain.TermRow) (*domain.Result, error) {
	if err := ValidateTerms(rows); err != nil {
		return nil, err
	}
	res := Present(CGPA(rows), true)
	res.ComputedAt = s.now().UTC()
	return &res, nil
}
