package service

import (
	"context"
	"time"
)

// AuthEventType names an account lifecycle event.
type AuthEventType string

const (
	EventPersonRegistered       AuthEventType = "person.registered"
	EventPasswordResetRequested AuthEventType = "password.reset_requested"
	EventPasswordReset          AuthEventType = "password.reset"
	EventPasswordChanged        AuthEventType = "password.changed"
	EventFederatedLinked        AuthEventType = "federated.linked"
	EventFederatedUpdated       AuthEventType = "federated.updated"
)

// AuthEvent is published after an account state change. It never carries secrets.
type AuthEvent struct {
	RequestID  string        `json:"request_id,omitempty"` // For distributed tracing
	EventID    string        `json:"event_id"`
	Type       AuthEventType `json:"type"`
	PersonID   string        `json:"person_id,omitempty"`
	Email      string        `json:"email,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishAuthEvent hands event to the transport and returns without waiting for
	// delivery. The error covers encoding and a closed publisher only.
	PublishAuthEvent(ctx context.Context, event *AuthEvent) error

	// Close waits for deliveries already started, then releases the transport.
	Close() error
}
