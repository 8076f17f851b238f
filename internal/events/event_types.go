package events

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated  EventType = "ticket_created"
	EventTicketUpdated  EventType = "ticket_updated"
	EventTicketDeleted  EventType = "ticket_deleted"
	EventTicketAssigned EventType = "ticket_assigned"
	EventNoteAdded      EventType = "note_added"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID    string `json:"user_id"`
	IsStaff   bool   `json:"is_staff"`
	IsManager bool   `json:"is_manager"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ActorFromUser builds event actor metadata from a user record.
func ActorFromUser(u *domain.User) Actor {
	return Actor{UserID: u.ID, IsStaff: u.IsStaff, IsManager: u.IsManager}
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Product     domain.Product `json:"product"`
	Description string         `json:"description"`
}

// TicketUpdatedPayload payload.
type TicketUpdatedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	StaffID string `json:"staff_id"`
}

// NoteAddedPayload payload.
type NoteAddedPayload struct {
	NoteID  string `json:"note_id"`
	IsStaff bool   `json:"is_staff"`
}
