package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/gradecalc/internal/domain"
)

// Common request/response structures

// SubjectRow is the wire form of one subject row. Credits above 1000 are
// rejected; negative credits pass through and are clamped to zero.
type SubjectRow struct {
	ID      string  `json:"id"      validate:"max=64"`
	Name    string  `json:"name"    validate:"max=200"`
	Grade   string  `json:"grade"   validate:"max=8"`
	Credits float64 `json:"credits" validate:"lte=1000"`
}

// TermRow is the wire form of one term row.
type TermRow struct {
	ID      string  `json:"id"      validate:"max=64"`
	Name    string  `json:"name"    validate:"max=200"`
	GPA     float64 `json:"gpa"`
	Credits float64 `json:"credits" validate:"lte=1000"`
}

// EvaluateGPARequest defines the payload for the stateless GPA endpoint.
type EvaluateGPARequest struct {
	Subjects []SubjectRow `json:"subjects" validate:"max=500,dive"`
}

// EvaluateCGPARequest defines the payload for the stateless CGPA endpoint.
type EvaluateCGPARequest struct {
	Terms []TermRow `json:"terms" validate:"max=500,dive"`
}

// ReplaceSubjectsRequest defines the payload for replacing a subject list.
type ReplaceSubjectsRequest struct {
	Subjects []SubjectRow `json:"subjects" validate:"max=500,dive"`
}

// ReplaceTermsRequest defines the payload for replacing a term list.
type ReplaceTermsRequest struct {
	Terms []TermRow `json:"terms" validate:"max=500,dive"`
}

// UpdateSubjectRequest is a partial update of a subject row.
// Omitted fields keep their current value.
type UpdateSubjectRequest struct {
	Name    *string  `json:"name,omitempty"    validate:"omitempty,max=200"`
	Grade   *string  `json:"grade,omitempty"   validate:"omitempty,max=8"`
	Credits *float64 `json:"credits,omitempty" validate:"omitempty,lte=1000"`
}

// UpdateTermRequest is a partial update of a term row.
type UpdateTermRequest struct {
	Name    *string  `json:"name,omitempty"    validate:"omitempty,max=200"`
	GPA     *float64 `json:"gpa,omitempty"`
	Credits *float64 `json:"credits,omitempty" validate:"omitempty,lte=1000"`
}

// ResultResponse is a presented GPA or CGPA.
type ResultResponse struct {
	Value      float64   `json:"value"`
	Rounded    float64   `json:"rounded"`
	Band       string    `json:"band,omitempty"`
	ComputedAt time.Time `json:"computed_at"`
}

// CalculatorResponse is one calculator of a session.
type CalculatorResponse[R any] struct {
	Rows   []R             `json:"rows"`
	State  string          `json:"state"`
	Result *ResultResponse `json:"result,omitempty"`
}

// SessionResponse is the response body for session endpoints.
type SessionResponse struct {
	ID        uuid.UUID                      `json:"id"`
	Subjects  CalculatorResponse[SubjectRow] `json:"subjects"`
	Terms     CalculatorResponse[TermRow]    `json:"terms"`
	CreatedAt time.Time                      `json:"created_at"`
	UpdatedAt time.Time                      `json:"updated_at"`
}

// CreateSessionResponse carries a new session and the token that grants access to it.
type CreateSessionResponse struct {
	Session SessionResponse `json:"session"`

	// Token is the bearer token for routes under /api/sessions/{id}
	Token string `json:"token"`

	// ExpiresAt is the ISO 8601 timestamp when the token expires
	ExpiresAt string `json:"expires_at"`
}

// GradeScaleResponse lists the letter grades and the points they carry.
type GradeScaleResponse struct {
	Grades []domain.GradePoint `json:"grades"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func subjectRowsFromRequest(rows []SubjectRow) []domain.GradeRow {
	out := make([]domain.GradeRow, len(rows))
	for i, r := range rows {
		out[i] = domain.GradeRow{ID: r.ID, Name: r.Name, Grade: r.Grade, Credits: r.Credits}
	}
	return out
}

func termRowsFromRequest(rows []TermRow) []domain.TermRow {
	out := make([]domain.TermRow, len(rows))
	for i, r := range rows {
		out[i] = domain.TermRow{ID: r.ID, Name: r.Name, GPA: r.GPA, Credits: r.Credits}
	}
	return out
}

func resultToResponse(r *domain.Result) *ResultResponse {
	if r == nil {
		return nil
	}
	return &ResultResponse{
		Value:      r.Value,
		Rounded:    r.Rounded,
		Band:       string(r.Band),
		ComputedAt: r.ComputedAt,
	}
}

func sessionToResponse(s *domain.Session) SessionResponse {
	subjects := make([]SubjectRow, len(s.Subjects.Rows))
	for i, r := range s.Subjects.Rows {
		subjects[i] = SubjectRow{ID: r.ID, Name: r.Name, Grade: r.Grade, Credits: r.Credits}
	}
	terms := make([]TermRow, len(s.Terms.Rows))
	for i, r := range s.Terms.Rows {
		terms[i] = TermRow{ID: r.ID, Name: r.Name, GPA: r.GPA, Credits: r.Credits}
	}

	return SessionResponse{
		ID: s.ID,
		Subjects: CalculatorResponse[SubjectRow]{
			Rows:   subjects,
			State:  string(s.Subjects.State),
			Result: resultToResponse(s.Subjects.Result),
		},
		Terms: CalculatorResponse[TermRow]{
			Rows:   terms,
			State:  string(s.Terms.State),
			Result: resultToResponse(s.Terms.Result),
		},
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
