package domain

import (
	"time"

	"github.com/google/uuid"
)

// CalcState is the position of a calculator in its run cycle.
type CalcState string

// Calculator states. Idle and Presented are the only states that are ever
// persisted; the others exist for the duration of a single run.
const (
	StateIdle       CalcState = "idle"
	StateValidating CalcState = "validating"
	StateRejected   CalcState = "rejected"
	StateComputing  CalcState = "computing"
	StatePresented  CalcState = "presented"
)

var transitions = map[CalcState][]CalcState{
	StateIdle:       {StateIdle, StateValidating},
	StateValidating: {StateRejected, StateComputing},
	StateRejected:   {StateIdle},
	StateComputing:  {StatePresented},
	StatePresented:  {StateIdle, StateValidating},
}

// CanTransition reports whether a calculator may move from s to next.
func (s CalcState) CanTransition(next CalcState) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsValid reports whether s is a known state.
func (s CalcState) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// Band is the qualitative label attached to a CGPA.
type Band string

const (
	BandExcellent        Band = "excellent"
	BandVeryGood         Band = "very good"
	BandGood             Band = "good"
	BandAverage          Band = "average"
	BandNeedsImprovement Band = "needs improvement"
)

// Result is a presented aggregate. Value is the unrounded weighted average;
// Rounded is what gets displayed. Band is empty for GPA results.
type Result struct {
	Value      float64   `json:"value"`
	Rounded    float64   `json:"rounded"`
	Band       Band      `json:"band,omitempty"`
	ComputedAt time.Time `json:"computed_at"`
}

// GradePoint is one entry of the grading scale.
type GradePoint struct {
	Grade  string  `json:"grade"`
	Points float64 `json:"points"`
}

// SubjectList is the GPA calculator's state: its rows, where it is in the run
// cycle, and the last successful result.
type SubjectList struct {
	Rows   []GradeRow `json:"rows"`
	State  CalcState  `json:"state"`
	Result *Result    `json:"result,omitempty"`
}

// TermList is the CGPA calculator's state.
type TermList struct {
	Rows   []TermRow `json:"rows"`
	State  CalcState `json:"state"`
	Result *Result   `json:"result,omitempty"`
}

// Session groups one user's two calculators.
type Session struct {
	ID        uuid.UUID   `json:"id"`
	Subjects  SubjectList `json:"subjects"`
	Terms     TermList    `json:"terms"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// NewSession creates a session whose calculators each hold one blank row.
func NewSession() *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.New(),
		Subjects:  SubjectList{Rows: DefaultGradeRows(), State: StateIdle},
		Terms:     TermList{Rows: DefaultTermRows(), State: StateIdle},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks the structural invariants of a session.
func (s *Session) Validate() error {
	if s.ID == uuid.Nil {
		return ErrSessionIDEmpty
	}
	if len(s.Subjects.Rows) == 0 || len(s.Terms.Rows) == 0 {
		return ErrRowsEmpty
	}
	if err := CheckUniqueIDs(s.Subjects.Rows); err != nil {
		return err
	}
	if err := CheckUniqueIDs(s.Terms.Rows); err != nil {
		return err
	}
	if !s.Subjects.State.IsValid() || !s.Terms.State.IsValid() {
		return ErrInvalidState
	}
	return nil
}

// Touch bumps UpdatedAt.
func (s *Session) Touch() {
	s.UpdatedAt = time.Now().UTC()
}

// ExportSnapshot is the plain record handed to document exporters.
type ExportSnapshot struct {
	SessionID  uuid.UUID    `json:"session_id"`
	Subjects   SubjectList  `json:"subjects"`
	Terms      TermList     `json:"terms"`
	GradeScale []GradePoint `json:"grade_scale"`
	ExportedAt time.Time    `json:"exported_at"`
}
