package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/gradecalc/internal/api/shared"
	"github.com/phrazzld/gradecalc/internal/domain"
	"github.com/phrazzld/gradecalc/internal/domain/grading"
	"github.com/phrazzld/gradecalc/internal/platform/logger"
	"github.com/phrazzld/gradecalc/internal/service"
	"github.com/phrazzld/gradecalc/internal/service/auth"
)

// CalculatorHandler handles the GPA and CGPA calculator HTTP requests
type CalculatorHandler struct {
	calculator   service.CalculatorService
	tokenService auth.TokenService
	logger       *slog.Logger
}

// NewCalculatorHandler creates a new CalculatorHandler
func NewCalculatorHandler(
	calculator service.CalculatorService,
	tokenService auth.TokenService,
	logger *slog.Logger,
) *CalculatorHandler {
	if calculator == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("calculator cannot be nil for CalculatorHandler")
	}
	if tokenService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("tokenService cannot be nil for CalculatorHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &CalculatorHandler{
		calculator:   calculator,
		tokenService: tokenService,
		logger:       logger.With(slog.String("component", "calculator_handler")),
	}
}

// Health handles GET /health requests
func (h *CalculatorHandler) Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ok"})
}

// GradeScale handles GET /api/grade-scale requests
func (h *CalculatorHandler) GradeScale(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, GradeScaleResponse{Grades: grading.Scale()})
}

// EvaluateGPA handles POST /api/gpa requests. Nothing is stored.
func (h *CalculatorHandler) EvaluateGPA(w http.ResponseWriter, r *http.Request) {
	var req EvaluateGPARequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.calculator.EvaluateSubjects(r.Context(), subjectRowsFromRequest(req.Subjects))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to calculate GPA")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resultToResponse(result))
}

// EvaluateCGPA handles POST /api/cgpa requests. Nothing is stored.
func (h *CalculatorHandler) EvaluateCGPA(w http.ResponseWriter, r *http.Request) {
	var req EvaluateCGPARequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.calculator.EvaluateTerms(r.Context(), termRowsFromRequest(req.Terms))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to calculate CGPA")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resultToResponse(result))
}

// CreateSession handles POST /api/sessions requests.
// It responds with the new session and a token granting access to it.
func (h *CalculatorHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	session, err := h.calculator.CreateSession(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create session")
		return
	}

	token, expiresAt, err := h.tokenService.IssueToken(r.Context(), session.ID)
	if err != nil {
		log.Error("failed to issue session token", "error", err, "session_id", session.ID)
		HandleAPIError(w, r, err, "Failed to create session")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, CreateSessionResponse{
		Session:   sessionToResponse(session),
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
	})
}

// GetSession handles GET /api/sessions/{id} requests
func (h *CalculatorHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := handleSessionID(w, r, h.logger)
	if !ok {
		return
	}

	session, err := h.calculator.GetSession(r.Context(), id)
	h.respondWithSession(w, r, session, err, "Failed to retrieve session")
}

// DeleteSession handles DELETE /api/sessions/{id} requests
func (h *CalculatorHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := handleSessionID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.calculator.DeleteSession(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddSubject handles POST /api/sessions/{id}/subjects requests
func (h *CalculatorHandler) AddSubject(w http.ResponseWriter, r *http.Request) {
	id, ok := handleSessionID(w, r, h.logger)
	if !ok {
		return
	}

	session, err := h.calculator.AddSubject(r.Context(), id)
	h.respondWithSession(w, r, session, err, "Failed to add subject")
}

// ReplaceSubjects handles PUT /api/sessions/{id}/subjects requests
func (h *CalculatorHandler) ReplaceSubjects(w http.ResponseWriter, r *http.Request) {
	id, ok := handleSessionID(w, r, h.logger)
	if !ok {
		return
	}

	var req ReplaceSubjectsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	session, err := h.calculator.ReplaceSubjects(r.Context(), id, subjectRowsFromRequest(req.Subjects))
	h.respondWithSession(w, r, session, err, "Failed to replace subjects")
}

// UpdateSubject handles PATCH /api/sessions/{id}/subjects/{rowID} requests
func (h *CalculatorHandler) UpdateSubject(w http.ResponseWriter, r *http.Request) {
	id, rowID, ok := handleSessionAndRowID(w, r, h.logger)
	if !ok {
		return
	}

	var req UpdateSubjectRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	session, err := h.calculator.UpdateSubject(r.Context(), id, rowID, domain.SubjectPatch{
		Name:    req.Name,
		Grade:   req.Grade,
		Credits: req.Credits,
	})
	h.respondWithSession(w, r, session, err, "Failed to update subject")
}

// RemoveSubject handles DELETE /api/sessions/{id}/subjects/{rowID} requests
func (h *CalculatorHandler) RemoveSubject(w http.ResponseWriter, r *http.Request) {
	id, rowID, ok := handleSessionAndRowID(w, r, h.logger)
	if !ok {
		return
	}

	session, err := h.calculator.RemoveSubject(r.Context(), id, rowID)
	h.respondWithSession(w, r, session, err, "Failed to remove subject")
}

// AddTerm handles POST /api/sessions/{id}/terms requests
func (h *CalculatorHandler) AddTerm(w http.ResponseWriter, r *http.Request) {
	id, ok := handleSessionID(w, r, h.logger)
	if !ok {
		return
	}

	session, err := h.calculator.AddTerm(r.Context(), id)
	h.respondWithSession(w, r, session, err, "Failed to add term")
}

// ReplaceTerms handles PUT /api/sessions/{id}/terms requests
func (h *CalculatorHandler) ReplaceTerms(w http.ResponseWriter, r *http.Request) {
	id, ok := handleSessionID(w, r, h.logger)
	if !ok {
		return
	}

	var req ReplaceTermsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	session, err := h.calculator.ReplaceTerms(r.Context(), id, termRowsFromRequest(req.Terms))
	h.respondWithSession(w, r, session, err, "Failed to replace terms")
}

// UpdateTerm handles PATCH /api/sessions/{id}/terms/{rowID} requests
func (h *CalculatorHandler) UpdateTerm(w http.ResponseWriter, r *http.Request) {
	id, rowID, ok := handleSessionAndRowID(w, r, h.logger)
	if !ok {
		return
	}

	var req UpdateTermRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	session, err := h.calculator.UpdateTerm(r.Context(), id, rowID, domain.TermPatch{
		Name:    req.Name,
		GPA:     req.GPA,
		Credits: req.Credits,
	})
	h.respondWithSession(w, r, session, err, "Failed to update term")
}

// RemoveTerm handles DELETE /api/sessions/{id}/terms/{rowID} requests
func (h *CalculatorHandler) RemoveTerm(w http.ResponseWriter, r *http.Request) {
	id, rowID, ok := handleSessionAndRowID(w, r, h.logger)
	if !ok {
		return
	}

	session, err := h.calculator.RemoveTerm(r.Context(), id, rowID)
	h.respondWithSession(w, r, session, err, "Failed to remove term")
}

// CalculateGPA handles POST /api/sessions/{id}/gpa/calculate requests
func (h *CalculatorHandler) CalculateGPA(w http.ResponseWriter, r *http.Request) {
	id, ok := handleSessionID(w, r, h.logger)
	if !ok {
		return
	}

	result, err := h.calculator.CalculateGPA(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to calculate GPA")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resultToResponse(result))
}

// CalculateCGPA handles POST /api/sessions/{id}/cgpa/calculate requests
func (h *CalculatorHandler) CalculateCGPA(w http.ResponseWriter, r *http.Request) {
	id, ok := handleSessionID(w, r, h.logger)
	if !ok {
		return
	}

	result, err := h.calculator.CalculateCGPA(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to calculate CGPA")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resultToResponse(result))
}

// ResetGPA handles POST /api/sessions/{id}/gpa/reset requests
func (h *CalculatorHandler) ResetGPA(w http.ResponseWriter, r *http.Request) {
	id, ok := handleSessionID(w, r, h.logger)
	if !ok {
		return
	}

	session, err := h.calculator.ResetGPA(r.Context(), id)
	h.respondWithSession(w, r, session, err, "Failed to reset GPA calculator")
}

// ResetCGPA handles POST /api/sessions/{id}/cgpa/reset requests
func (h *CalculatorHandler) ResetCGPA(w http.ResponseWriter, r *http.Request) {
	id, ok := handleSessionID(w, r, h.logger)
	if !ok {
		return
	}

	session, err := h.calculator.ResetCGPA(r.Context(), id)
	h.respondWithSession(w, r, session, err, "Failed to reset CGPA calculator")
}

// Export handles GET /api/sessions/{id}/export requests
func (h *CalculatorHandler) Export(w http.ResponseWriter, r *http.Request) {
	id, ok := handleSessionID(w, r, h.logger)
	if !ok {
		return
	}

	snapshot, err := h.calculator.Export(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to export session")
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="grades-`+id.String()+`.json"`)
	shared.RespondWithJSON(w, r, http.StatusOK, snapshot)
}

func (h *CalculatorHandler) respondWithSession(
	w http.ResponseWriter,
	r *http.Request,
	session *domain.Session,
	err error,
	fallbackMsg string,
) {
	if err != nil {
		HandleAPIError(w, r, err, fallbackMsg)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(session))
}
