package grading

import (
	"strings"

	"github.com/phrazzld/gradecalc/internal/domain"
)

// ValidateSubjects checks that every subject row is complete: a name, a grade
// and a positive number of credits. It returns nil or a *domain.ValidationError
// describing the first offending row.
func ValidateSubjects(rows []domain.GradeRow) error {
	if len(rows) == 0 {
		return emptyListError()
	}
	for i, r := range rows {
		switch {
		case strings.TrimSpace(r.Name) == "":
			return domain.NewValidationError(domain.CategoryMissingFields, i, r.ID, "name", "is required")
		case r.Grade == "":
			return domain.NewValidationError(domain.CategoryMissingFields, i, r.ID, "grade", "is required")
		case !(r.Credits > 0):
			return domain.NewValidationError(domain.CategoryMissingFields, i, r.ID, "credits", "must be greater than 0")
		}
	}
	return nil
}

// ValidateTerms checks that every term row has a name, a GPA within
// [domain.MinGPA, domain.MaxGPA] and a positive number of credits.
func ValidateTerms(rows []domain.TermRow) error {
	if len(rows) == 0 {
		return emptyListError()
	}
	for i, r := range rows {
		switch {
		case strings.TrimSpace(r.Name) == "":
			return domain.NewValidationError(domain.CategoryMissingFields, i, r.ID, "name", "is required")
		case !(r.Credits > 0):
			return domain.NewValidationError(domain.CategoryMissingFields, i, r.ID, "credits", "must be greater than 0")
		case !(r.GPA >= domain.MinGPA && r.GPA <= domain.MaxGPA):
			return domain.NewValidationError(domain.CategoryOutOfRange, i, r.ID, "gpa", "must be between 0 and 10")
		}
	}
	return nil
}

func emptyListError() *domain.ValidationError {
	return &domain.ValidationError{
		Category: domain.CategoryMissingFields,
		RowIndex: -1,
		Message:  "at least one row is required",
	}
}
