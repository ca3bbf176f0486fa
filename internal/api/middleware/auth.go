package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/gradecalc/internal/api/shared"
	"github.com/phrazzld/gradecalc/internal/platform/logger"
	"github.com/phrazzld/gradecalc/internal/service/auth"
)

// SessionParam is the URL parameter holding the session ID on protected routes.
const SessionParam = "id"

// AuthMiddleware checks session tokens on routes below /api/sessions/{id}.
type AuthMiddleware struct {
	tokenService auth.TokenService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(tokenService auth.TokenService) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
	}
}

// Authenticate validates the bearer token from the Authorization header,
// requires it to have been issued for the session named in the URL, and adds
// the session ID to the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized,
				"Authorization header required", auth.ErrMissingToken)
			return
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		claims, err := m.tokenService.ValidateToken(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Token expired", err)
			case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrTokenNotYetValid):
				shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid token", err,
					shared.WithElevatedLogLevel())
			default:
				shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Authentication error", err)
			}
			return
		}

		if raw := chi.URLParam(r, SessionParam); raw != "" {
			pathID, err := uuid.Parse(raw)
			if err != nil || pathID != claims.SessionID {
				shared.RespondWithErrorAndLog(w, r, http.StatusForbidden,
					"Token does not grant access to this session", auth.ErrWrongSession,
					shared.WithElevatedLogLevel())
				return
			}
		}

		logger.FromContextOrDefault(r.Context(), slog.Default()).
			Debug("session token accepted", "session_id", claims.SessionID)

		next.ServeHTTP(w, r.WithContext(shared.WithSessionID(r.Context(), claims.SessionID)))
	})
}
