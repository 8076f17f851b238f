package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// AssignmentService performs the manager→staff assignment handshake.
type AssignmentService struct {
	tickets    repository.TicketRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// AssignmentResult bundles the handshake outcome: the assigned ticket and the
// staff member with their refreshed assignment list.
type AssignmentResult struct {
	Staff  *domain.User
	Ticket *domain.Ticket
}

// NewAssignmentService creates the service.
func NewAssignmentService(tickets repository.TicketRepository, users repository.UserRepository, dispatcher events.Dispatcher) *AssignmentService {
	return &AssignmentService{tickets: tickets, users: users, dispatcher: dispatcher}
}

// Assign binds a ticket to a staff member and transitions it new→open. The
// manager flag is re-checked on the freshly loaded actor record, not the
// token. A ticket is assigned at most once; a second attempt fails with a
// conflict and mutates nothing.
func (s *AssignmentService) Assign(ctx context.Context, actor *domain.User, staffID, ticketID string) (*AssignmentResult, error) {
	if !actor.IsManager {
		return nil, apperrors.NewForbidden("manager role required")
	}
	if staffID == "" || ticketID == "" {
		return nil, apperrors.NewValidationError("staffId and ticketId required", nil)
	}

	staff, err := s.users.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("staff user", map[string]any{"staff_id": staffID})
		}
		return nil, apperrors.MapError(err)
	}
	if !staff.IsStaff {
		return nil, apperrors.NewConflict("user is not staff", map[string]any{"staff_id": staffID})
	}

	ticket, err := s.tickets.AssignToStaff(ctx, ticketID, staffID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyAssigned):
			return nil, apperrors.NewConflict("ticket already assigned", map[string]any{"ticket_id": ticketID})
		case errors.Is(err, pgx.ErrNoRows):
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		default:
			return nil, apperrors.MapError(err)
		}
	}

	// re-load so the result carries the appended assignment list
	staff, err = s.users.GetByID(ctx, staffID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		Actor:    events.ActorFromUser(actor),
		Payload:  events.TicketAssignedPayload{StaffID: staffID},
	})
	return &AssignmentResult{Staff: staff, Ticket: ticket}, nil
}

func (s *AssignmentService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
