package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "status").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Kinds of portal events handed to the notification dispatcher.
const (
	KindStatus      = "status"
	KindNote        = "note"
	KindNewPosition = "new_position"
	KindNewClient   = "new_client"
	KindNewUser     = "new_user"
)

// Actor identifies who triggered an event.
type Actor struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PortalEvent is the discriminated domain event record produced by mutating
// operations. Position and Filename are empty for client-level kinds.
type PortalEvent struct {
	Kind       string            `json:"kind"`
	Client     string            `json:"client"`
	Position   string            `json:"position,omitempty"`
	Filename   string            `json:"filename,omitempty"`
	Content    string            `json:"content,omitempty"`
	Details    map[string]string `json:"details,omitempty"`
	Actor      Actor             `json:"actor"`
	OccurredAt time.Time         `json:"occurred_at"`
}

func (e PortalEvent) EventType() string { return e.Kind }

func (e PortalEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"kind":        e.Kind,
		"client":      e.Client,
		"position":    e.Position,
		"filename":    e.Filename,
		"content":     e.Content,
		"details":     e.Details,
		"actor_name":  e.Actor.Name,
		"actor_email": e.Actor.Email,
		"occurred_at": e.OccurredAt.Format(time.RFC3339),
	}
}

func (e PortalEvent) Timestamp() time.Time { return e.OccurredAt }
