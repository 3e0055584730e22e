package events

import (
	"time"

	"github.com/helixdesk/helixdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated  EventType = "ticket_created"
	EventTicketMutated  EventType = "ticket_mutated"
	EventTicketDeleted  EventType = "ticket_deleted"
	EventUserCreated    EventType = "user_created"
	EventUserMutated    EventType = "user_mutated"
	EventUserDeleted    EventType = "user_deleted"
)

// Event represents a domain event emitted by the workflow and user services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TicketID string                `json:"ticket_id"`
	Type     domain.TicketType     `json:"ticket_type"`
	Priority domain.TicketPriority `json:"priority"`
	Title    string                `json:"title"`
}

// TicketMutatedPayload payload. Operation names the workflow op that ran
// (claim, assign, submit_task, approve_task, resolve, accept, reject, ...).
type TicketMutatedPayload struct {
	TicketID     string              `json:"ticket_id"`
	Operation    string              `json:"operation"`
	Status       domain.TicketStatus `json:"status"`
	AssignedToID *string             `json:"assigned_to_id,omitempty"`
	TaskID       string              `json:"task_id,omitempty"`
}

// TicketDeletedPayload payload.
type TicketDeletedPayload struct {
	TicketID string `json:"ticket_id"`
}

// UserMutatedPayload payload, shared by user create/update/delete events.
type UserMutatedPayload struct {
	UserID string          `json:"user_id"`
	Role   domain.UserRole `json:"role,omitempty"`
}
