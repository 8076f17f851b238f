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

// NoteService manages the append-only note log on tickets.
type NoteService struct {
	notes      repository.NoteRepository
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
}

// NewNoteService constructs the service.
func NewNoteService(notes repository.NoteRepository, tickets repository.TicketRepository, dispatcher events.Dispatcher) *NoteService {
	return &NoteService{notes: notes, tickets: tickets, dispatcher: dispatcher}
}

// ListNotes returns the note log for a ticket the actor may view.
func (s *NoteService) ListNotes(ctx context.Context, actor *domain.User, ticketID string) ([]domain.Note, error) {
	if _, err := s.visibleTicket(ctx, actor, ticketID); err != nil {
		return nil, err
	}
	notes, err := s.notes.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return notes, nil
}

// AddNote appends a remark. IsStaff is captured from the actor's current role
// at write time and never revisited.
func (s *NoteService) AddNote(ctx context.Context, actor *domain.User, ticketID, text string) (*domain.Note, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewValidationError("please add a note text", nil)
	}
	ticket, err := s.visibleTicket(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}

	note := &domain.Note{
		TicketID: ticket.ID,
		AuthorID: actor.ID,
		Text:     text,
		IsStaff:  actor.IsStaff,
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, apperrors.MapError(err)
	}
	note.AuthorName = actor.Name

	s.publish(ctx, events.Event{
		Type:     events.EventNoteAdded,
		TicketID: ticket.ID,
		Actor:    events.ActorFromUser(actor),
		Payload:  events.NoteAddedPayload{NoteID: note.ID, IsStaff: note.IsStaff},
	})
	return note, nil
}

func (s *NoteService) visibleTicket(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if !domain.CanViewTicket(actor, ticket) {
		return nil, apperrors.NewForbidden("not authorized")
	}
	return ticket, nil
}

func (s *NoteService) publish(ctx context.Context, event events.Event) {
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
