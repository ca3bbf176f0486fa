package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/gradecalc/internal/api/shared"
	"github.com/phrazzld/gradecalc/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceMiddleware(t *testing.T) {
	t.Parallel()

	log, buf := logger.NewTestLogger()

	var traceID string
	handler := chimiddleware.RequestID(NewTraceMiddleware(log)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID = shared.GetTraceID(r.Context())
			logger.FromContext(r.Context()).Info("inside handler")
			w.WriteHeader(http.StatusTeapot)
		}),
	))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTeapot, w.Code)
	require.Len(t, traceID, shared.TraceIDLength*2)

	var inside, completed map[string]any
	for _, e := range buf.Entries() {
		switch e["msg"] {
		case "inside handler":
			inside = e
		case "request completed":
			completed = e
		}
	}
	require.NotNil(t, inside, "handler logger comes from the context")
	assert.Equal(t, traceID, inside["trace_id"])
	assert.NotEmpty(t, inside["request_id"])

	require.NotNil(t, completed)
	assert.Equal(t, float64(http.StatusTeapot), completed["status"])
	assert.Equal(t, "/health", completed["path"])
}

func TestTraceMiddlewareUniqueIDs(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	handler := NewTraceMiddleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen[shared.GetTraceID(r.Context())] = true
	}))

	for i := 0; i < 5; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	}
	assert.Len(t, seen, 5)
}
