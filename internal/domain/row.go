package domain

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// ListKey is the stable identity of a persisted row list.
type ListKey string

// Row list identities, matching the keys the browser client stores under.
const (
	SubjectListKey ListKey = "gpaSubjects"
	TermListKey    ListKey = "cgpaSemesters"
)

// GPA bounds for term rows.
const (
	MinGPA = 0.0
	MaxGPA = 10.0
)

// DefaultRowID is the ID of the single blank row a fresh list starts with.
const DefaultRowID = "1"

// GradeRow is one subject of a term: a letter grade earned over some credits.
// Name is a display label only.
type GradeRow struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Grade   string  `json:"grade"`
	Credits float64 `json:"credits"`
}

// TermRow is one completed term: its GPA and the credits it carried.
type TermRow struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	GPA     float64 `json:"gpa"`
	Credits float64 `json:"credits"`
}

// RowID returns the row's identifier.
func (r GradeRow) RowID() string { return r.ID }

// RowID returns the row's identifier.
func (r TermRow) RowID() string { return r.ID }

// SubjectPatch is a partial update of a GradeRow. Nil fields are left alone.
type SubjectPatch struct {
	Name    *string  `json:"name,omitempty"`
	Grade   *string  `json:"grade,omitempty"`
	Credits *float64 `json:"credits,omitempty"`
}

// TermPatch is a partial update of a TermRow. Nil fields are left alone.
type TermPatch struct {
	Name    *string  `json:"name,omitempty"`
	GPA     *float64 `json:"gpa,omitempty"`
	Credits *float64 `json:"credits,omitempty"`
}

// Apply returns a copy of r with the patch applied and numeric fields clamped.
func (r GradeRow) Apply(p SubjectPatch) GradeRow {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Grade != nil {
		r.Grade = *p.Grade
	}
	if p.Credits != nil {
		r.Credits = ClampCredits(*p.Credits)
	}
	return r
}

// Apply returns a copy of r with the patch applied and numeric fields clamped.
func (r TermRow) Apply(p TermPatch) TermRow {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.GPA != nil {
		r.GPA = ClampGPA(*p.GPA)
	}
	if p.Credits != nil {
		r.Credits = ClampCredits(*p.Credits)
	}
	return r
}

// ClampCredits forces a credits value to be non-negative.
// Non-finite input is treated as zero.
func ClampCredits(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// ClampGPA forces a GPA into [MinGPA, MaxGPA]. NaN is treated as zero.
func ClampGPA(v float64) float64 {
	if math.IsNaN(v) {
		return MinGPA
	}
	return math.Min(math.Max(v, MinGPA), MaxGPA)
}

// NewRowID generates an opaque identifier for a new row.
func NewRowID() string {
	return uuid.NewString()
}

// NewGradeRow creates a blank subject row.
func NewGradeRow() GradeRow {
	return GradeRow{ID: NewRowID()}
}

// NewTermRow creates a blank term row named for its position in the list (1-based).
func NewTermRow(position int) TermRow {
	return TermRow{
		ID:   NewRowID(),
		Name: fmt.Sprintf("Semester %d", position),
	}
}

// DefaultGradeRows is the row list a fresh or reset GPA calculator starts with.
func DefaultGradeRows() []GradeRow {
	return []GradeRow{{ID: DefaultRowID}}
}

// DefaultTermRows is the row list a fresh or reset CGPA calculator starts with.
func DefaultTermRows() []TermRow {
	return []TermRow{{ID: DefaultRowID}}
}

// NormalizeGradeRows prepares a caller-supplied subject list for storage.
// An empty list becomes the default list, missing IDs are generated and
// credits are clamped. Duplicate IDs are rejected with ErrDuplicateRowID.
func NormalizeGradeRows(rows []GradeRow) ([]GradeRow, error) {
	if len(rows) == 0 {
		return DefaultGradeRows(), nil
	}
	out := make([]GradeRow, len(rows))
	for i, r := range rows {
		if r.ID == "" {
			r.ID = NewRowID()
		}
		r.Credits = ClampCredits(r.Credits)
		out[i] = r
	}
	if err := CheckUniqueIDs(out); err != nil {
		return nil, err
	}
	return out, nil
}

// NormalizeTermRows is NormalizeGradeRows for term lists; GPA is clamped as well.
func NormalizeTermRows(rows []TermRow) ([]TermRow, error) {
	if len(rows) == 0 {
		return DefaultTermRows(), nil
	}
	out := make([]TermRow, len(rows))
	for i, r := range rows {
		if r.ID == "" {
			r.ID = NewRowID()
		}
		r.GPA = ClampGPA(r.GPA)
		r.Credits = ClampCredits(r.Credits)
		out[i] = r
	}
	if err := CheckUniqueIDs(out); err != nil {
		return nil, err
	}
	return out, nil
}
