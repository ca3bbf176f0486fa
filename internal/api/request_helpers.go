package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/gradecalc/internal/api/middleware"
	"github.com/phrazzld/gradecalc/internal/api/shared"
	"github.com/phrazzld/gradecalc/internal/domain"
	"github.com/phrazzld/gradecalc/internal/platform/logger"
)

// RowParam is the URL parameter holding a row ID.
const RowParam = "rowID"

// getPathUUID extracts a UUID from the URL path parameters.
// It returns domain.ErrInvalidID when the parameter is missing or malformed.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.ErrInvalidID
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.ErrInvalidID
	}

	return id, nil
}

// handleSessionID returns the session the request is for. The auth middleware
// has already checked the token against the path, so the context value is
// preferred; the path is the fallback for handlers mounted without it.
// It writes an error response and returns false when neither is usable.
func handleSessionID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, bool) {
	if log == nil {
		log = logger.FromContextOrDefault(r.Context(), slog.Default())
	}

	if id, ok := shared.GetSessionID(r.Context()); ok {
		return id, true
	}

	id, err := getPathUUID(r, middleware.SessionParam)
	if err != nil {
		log.Warn("invalid session id",
			slog.String("param_name", middleware.SessionParam),
			slog.String("value", chi.URLParam(r, middleware.SessionParam)))
		HandleAPIError(w, r, err, "")
		return uuid.Nil, false
	}
	return id, true
}

// handleSessionAndRowID is handleSessionID plus the row ID path parameter.
func handleSessionAndRowID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, string, bool) {
	sessionID, ok := handleSessionID(w, r, log)
	if !ok {
		return uuid.Nil, "", false
	}

	rowID := chi.URLParam(r, RowParam)
	if rowID == "" {
		HandleAPIError(w, r, domain.ErrInvalidID, "")
		return uuid.Nil, "", false
	}
	return sessionID, rowID, true
}

// decodeAndValidate decodes the JSON body into req and validates it,
// writing a 400 response and returning false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := shared.DecodeJSON(r, req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}
