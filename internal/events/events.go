package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/spelldeck-api/internal/artifact"
)

// Event types
const (
	// BatchRequested is emitted when a word batch has been accepted and its
	// job created.
	BatchRequested = "word_batch.requested"
)

// Event is a request for background work. The payload is kept as JSON so
// handlers decode only the types they understand.
type Event struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type selects the handler behaviour
	Type string `json:"type"`

	// Payload contains the type-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// BatchRequest is the payload of a BatchRequested event.
type BatchRequest struct {
	JobID    string          `json:"job_id"`
	Upload   artifact.Upload `json:"upload"`
	Provider string          `json:"provider"`
	APIKey   string          `json:"api_key,omitempty"`
	Model    string          `json:"model,omitempty"`
}

// NewEvent creates an Event with the specified type and payload.
func NewEvent(eventType string, payload any) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// NewBatchRequestEvent wraps req in a BatchRequested event.
func NewBatchRequestEvent(req BatchRequest) (*Event, error) {
	return NewEvent(BatchRequested, req)
}

// UnmarshalPayload decodes the event payload into v.
func (e *Event) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// BatchRequest decodes the payload of a BatchRequested event.
func (e *Event) BatchRequest() (BatchRequest, error) {
	var req BatchRequest
	if e.Type != BatchRequested {
		return req, fmt.Errorf("event %s has type %q, not %q", e.ID, e.Type, BatchRequested)
	}
	if err := e.UnmarshalPayload(&req); err != nil {
		return req, fmt.Errorf("decode batch request: %w", err)
	}
	if req.JobID == "" {
		return req, fmt.Errorf("batch request event %s has no job id", e.ID)
	}
	return req, nil
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *Event) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *Event) error
}
