package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// TicketService coordinates ticket lifecycle and per-role visibility.
type TicketService struct {
	tickets    repository.TicketRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// TicketPatch describes a partial update. Fields left nil are untouched.
// There is deliberately no state-machine guard on Status: owners may set any
// catalog value directly, including reopening a closed ticket.
type TicketPatch struct {
	Product     *domain.Product
	Description *string
	Status      *domain.TicketStatus
}

// NewTicketService constructs the service.
func NewTicketService(tickets repository.TicketRepository, users repository.UserRepository, dispatcher events.Dispatcher) *TicketService {
	return &TicketService{tickets: tickets, users: users, dispatcher: dispatcher}
}

// ListTickets returns the tickets visible to the actor. Manager sees all,
// staff sees their assignment set, everyone else sees their own tickets.
func (s *TicketService) ListTickets(ctx context.Context, actor *domain.User) ([]domain.Ticket, error) {
	switch domain.ScopeFor(actor) {
	case domain.ScopeAll:
		return s.list(s.tickets.ListAll(ctx))
	case domain.ScopeAssigned:
		return s.list(s.tickets.ListByIDs(ctx, actor.AssignedTickets))
	default:
		return s.list(s.tickets.ListByOwner(ctx, actor.ID))
	}
}

// ListAssigned returns the tickets in the staff member's assignment set.
func (s *TicketService) ListAssigned(ctx context.Context, staff *domain.User) ([]domain.Ticket, error) {
	return s.list(s.tickets.ListByIDs(ctx, staff.AssignedTickets))
}

// ListAll returns every ticket in the store.
func (s *TicketService) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	return s.list(s.tickets.ListAll(ctx))
}

// GetTicket fetches one ticket. The owner check short-circuits before role
// flags are consulted. When the ticket is assigned, the assignee record is
// returned alongside so the response can carry their name and email.
func (s *TicketService) GetTicket(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, *domain.User, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, nil, err
	}
	if !domain.CanViewTicket(actor, ticket) {
		return nil, nil, apperrors.NewForbidden("not authorized")
	}

	var assignee *domain.User
	if ticket.IsAssigned && ticket.AssignedTo != nil {
		assignee, err = s.users.GetByID(ctx, *ticket.AssignedTo)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				// assigned_to points at a vanished user; surface the invariant break
				return nil, nil, apperrors.NewInternalError(errors.New("assignee record missing"))
			}
			return nil, nil, apperrors.MapError(err)
		}
	}
	return ticket, assignee, nil
}

// CreateTicket opens a new ticket owned by the actor.
func (s *TicketService) CreateTicket(ctx context.Context, actor *domain.User, product domain.Product, description string) (*domain.Ticket, error) {
	description = strings.TrimSpace(description)
	if product == "" || description == "" {
		return nil, apperrors.NewValidationError("please add a product and a description", nil)
	}
	if !domain.ValidProduct(product) {
		return nil, apperrors.NewValidationError("unknown product", map[string]any{"product": product})
	}

	ticket := &domain.Ticket{
		OwnerID:     actor.ID,
		Product:     product,
		Description: description,
		Status:      domain.TicketStatusNew,
		IsAssigned:  false,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    events.ActorFromUser(actor),
		Payload: events.TicketCreatedPayload{
			Product:     ticket.Product,
			Description: ticket.Description,
		},
	})
	return ticket, nil
}

// UpdateTicket applies a patch to an owned ticket. Owner-only; staff and
// managers get no exception here.
func (s *TicketService) UpdateTicket(ctx context.Context, actor *domain.User, ticketID string, patch TicketPatch) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !domain.CanModifyTicket(actor, ticket) {
		return nil, apperrors.NewForbidden("not authorized")
	}

	oldStatus := ticket.Status
	if patch.Product != nil {
		if !domain.ValidProduct(*patch.Product) {
			return nil, apperrors.NewValidationError("unknown product", map[string]any{"product": *patch.Product})
		}
		ticket.Product = *patch.Product
	}
	if patch.Description != nil {
		desc := strings.TrimSpace(*patch.Description)
		if desc == "" {
			return nil, apperrors.NewValidationError("description cannot be empty", nil)
		}
		ticket.Description = desc
	}
	if patch.Status != nil {
		if !domain.ValidStatus(*patch.Status) {
			return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": *patch.Status})
		}
		ticket.Status = *patch.Status
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketUpdated,
		TicketID: ticket.ID,
		Actor:    events.ActorFromUser(actor),
		Payload: events.TicketUpdatedPayload{
			OldStatus: oldStatus,
			NewStatus: ticket.Status,
		},
	})
	return ticket, nil
}

// DeleteTicket removes an owned ticket. Notes go with it (cascade).
func (s *TicketService) DeleteTicket(ctx context.Context, actor *domain.User, ticketID string) error {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return err
	}
	if !domain.CanModifyTicket(actor, ticket) {
		return apperrors.NewForbidden("not authorized")
	}
	if err := s.tickets.Delete(ctx, ticketID); err != nil {
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: ticketID,
		Actor:    events.ActorFromUser(actor),
	})
	return nil
}

func (s *TicketService) getTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *TicketService) list(tickets []domain.Ticket, err error) ([]domain.Ticket, error) {
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
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
