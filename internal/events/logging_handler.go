package events

import (
	"context"
	"log/slog"

	"github.com/phrazzld/gradecalc/internal/platform/logger"
)

// loggingComponent tags every line the LoggingHandler writes.
const loggingComponent = "calculation_events"

// LoggingHandler records every calculation event as a structured log line.
// The request logger in the context is preferred so the line carries the
// request's trace ID.
type LoggingHandler struct {
	logger *slog.Logger
}

// NewLoggingHandler creates a LoggingHandler. If logger is nil, a default logger will be used.
func NewLoggingHandler(l *slog.Logger) *LoggingHandler {
	if l == nil {
		l = slog.Default()
	}
	return &LoggingHandler{logger: l}
}

// HandleEvent implements EventHandler.
func (h *LoggingHandler) HandleEvent(ctx context.Context, event *CalculationEvent) error {
	log := logger.FromContextOrDefault(ctx, h.logger).With("component", loggingComponent)

	attrs := []any{
		"event_id", event.ID,
		"event_type", event.Type,
		"session_id", event.SessionID,
		"list", string(event.List),
	}
	if event.Category != "" {
		attrs = append(attrs, "category", string(event.Category))
	}
	if len(event.Payload) > 0 {
		attrs = append(attrs, "payload", string(event.Payload))
	}

	level := slog.LevelInfo
	if event.Type == TypeCalculationRejected {
		level = slog.LevelWarn
	}
	log.Log(ctx, level, "calculation event", attrs...)
	return nil
}
