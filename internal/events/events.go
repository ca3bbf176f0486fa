package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/gradecalc/internal/domain"
)

// Calculation event types.
const (
	// TypeCalculationCompleted is emitted when a calculator presents a result.
	TypeCalculationCompleted = "calculation.completed"
	// TypeCalculationRejected is emitted when validation rejects a row list.
	TypeCalculationRejected = "calculation.rejected"
	// TypeCalculatorReset is emitted when a calculator is reset to its default row.
	TypeCalculatorReset = "calculator.reset"
)

// CalculationEvent describes something that happened to one calculator of a session.
type CalculationEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the Type* constants
	Type string `json:"type"`

	// SessionID identifies the session the calculator belongs to
	SessionID uuid.UUID `json:"session_id"`

	// List identifies the calculator
	List domain.ListKey `json:"list"`

	// Category is set on rejections
	Category domain.Category `json:"category,omitempty"`

	// Payload carries type-specific data serialized as JSON
	Payload json.RawMessage `json:"payload,omitempty"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *CalculationEvent) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// NewCalculationEvent creates an event with the given type and payload.
// A nil payload is left empty.
func NewCalculationEvent(
	eventType string,
	sessionID uuid.UUID,
	list domain.ListKey,
	payload any,
) (*CalculationEvent, error) {
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		raw = b
	}

	return &CalculationEvent{
		ID:        uuid.New(),
		Type:      eventType,
		SessionID: sessionID,
		List:      list,
		Payload:   raw,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *CalculationEvent) error
}

// HandlerFunc adapts a plain function to the EventHandler interface.
type HandlerFunc func(ctx context.Context, event *CalculationEvent) error

// HandleEvent calls f(ctx, event).
func (f HandlerFunc) HandleEvent(ctx context.Context, event *CalculationEvent) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *CalculationEvent) error
}
