package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventSessionStart EventType = "session_start"
	EventAction       EventType = "action"
	EventInfo         EventType = "info"
	EventSessionEnd   EventType = "session_end"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// ActionEvent is emitted every time an action is charged to the session.
type ActionEvent struct {
	EventBase
	Action    Action  `json:"action"`
	Cost      float64 `json:"cost"`
	TotalCost float64 `json:"total_cost"`
	Status    string  `json:"status,omitempty"`
}

// InfoEvent carries a non-action notice (OUT_OF_QUERIES, SERP_END_REACHED, ...).
type InfoEvent struct {
	EventBase
	Kind string `json:"kind"`
}

// SessionEvent marks the start or end of a session.
type SessionEvent struct {
	EventBase
	Workflow  Workflow `json:"workflow"`
	Reason    string   `json:"reason,omitempty"`
	TotalCost float64  `json:"total_cost,omitempty"`
}

// LifecycleHooks defines callbacks for simulator observability.
type LifecycleHooks struct {
	OnSessionStart func(context.Context, *SessionEvent)
	OnAction       func(context.Context, *ActionEvent)
	OnInfo         func(context.Context, *InfoEvent)
	OnSessionEnd   func(context.Context, *SessionEvent)
}
