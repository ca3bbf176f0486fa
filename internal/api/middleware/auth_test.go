package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/gradecalc/internal/api/shared"
	"github.com/phrazzld/gradecalc/internal/config"
	"github.com/phrazzld/gradecalc/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-for-testing"

// failingTokenService fails every validation with err.
type failingTokenService struct {
	err error
}

func (f failingTokenService) IssueToken(context.Context, uuid.UUID) (string, time.Time, error) {
	return "", time.Time{}, f.err
}

func (f failingTokenService) ValidateToken(context.Context, string) (*auth.Claims, error) {
	return nil, f.err
}

func newTokenService(t *testing.T, now time.Time) auth.TokenService {
	t.Helper()
	svc, err := auth.NewTokenServiceWithClock(
		config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 60},
		func() time.Time { return now },
	)
	require.NoError(t, err)
	return svc
}

// protectedRouter mounts the middleware the way the server does and records
// the session ID the handler sees.
func protectedRouter(tokens auth.TokenService, seen *uuid.UUID) http.Handler {
	r := chi.NewRouter()
	r.Route("/api/sessions/{id}", func(r chi.Router) {
		r.Use(NewAuthMiddleware(tokens).Authenticate)
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			*seen, _ = shared.GetSessionID(r.Context())
			w.WriteHeader(http.StatusOK)
		})
	})
	return r
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	t.Parallel()

	now := time.Now()
	tokens := newTokenService(t, now)
	sessionID := uuid.New()
	valid, _, err := tokens.IssueToken(context.Background(), sessionID)
	require.NoError(t, err)
	foreign, _, err := tokens.IssueToken(context.Background(), uuid.New())
	require.NoError(t, err)
	expired, _, err := newTokenService(t, now.Add(-3*time.Hour)).IssueToken(context.Background(), sessionID)
	require.NoError(t, err)

	tests := []struct {
		name           string
		path           string
		authHeader     string
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "valid token",
			path:           "/api/sessions/" + sessionID.String() + "/",
			authHeader:     "Bearer " + valid,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "lower case scheme",
			path:           "/api/sessions/" + sessionID.String() + "/",
			authHeader:     "bearer " + valid,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing auth header",
			path:           "/api/sessions/" + sessionID.String() + "/",
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Authorization header required",
		},
		{
			name:           "invalid auth format",
			path:           "/api/sessions/" + sessionID.String() + "/",
			authHeader:     "InvalidFormat",
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Invalid authorization format",
		},
		{
			name:           "garbage token",
			path:           "/api/sessions/" + sessionID.String() + "/",
			authHeader:     "Bearer not-a-token",
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Invalid token",
		},
		{
			name:           "expired token",
			path:           "/api/sessions/" + sessionID.String() + "/",
			authHeader:     "Bearer " + expired,
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Token expired",
		},
		{
			name:           "token for another session",
			path:           "/api/sessions/" + sessionID.String() + "/",
			authHeader:     "Bearer " + foreign,
			expectedStatus: http.StatusForbidden,
			expectedError:  "Token does not grant access to this session",
		},
		{
			name:           "malformed session id",
			path:           "/api/sessions/not-a-uuid/",
			authHeader:     "Bearer " + valid,
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var seen uuid.UUID
			handler := protectedRouter(tokens, &seen)

			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tc.expectedStatus, w.Code)
			if tc.expectedStatus == http.StatusOK {
				assert.Equal(t, sessionID, seen)
				return
			}
			assert.Equal(t, uuid.Nil, seen, "handler must not run")
			if tc.expectedError != "" {
				assert.Contains(t, w.Body.String(), tc.expectedError)
			}
		})
	}
}

func TestAuthMiddleware_UnexpectedError(t *testing.T) {
	t.Parallel()

	var seen uuid.UUID
	handler := protectedRouter(failingTokenService{err: errors.New("key store offline")}, &seen)

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/"+uuid.NewString()+"/", nil)
	req.Header.Set("Authorization", "Bearer anything")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Authentication error")
	assert.NotContains(t, w.Body.String(), "key store offline")
}
