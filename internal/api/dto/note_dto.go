package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CreateNoteRequest payload.
type CreateNoteRequest struct {
	Text string `json:"text" validate:"required"`
}

// NoteResponse is the wire view of a note.
type NoteResponse struct {
	ID         string    `json:"id"`
	TicketID   string    `json:"ticketId"`
	UserID     string    `json:"userId"`
	AuthorName string    `json:"authorName"`
	Text       string    `json:"text"`
	IsStaff    bool      `json:"isStaff"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NoteView builds the response view of a note.
func NoteView(note *domain.Note) NoteResponse {
	return NoteResponse{
		ID:         note.ID,
		TicketID:   note.TicketID,
		UserID:     note.AuthorID,
		AuthorName: note.AuthorName,
		Text:       note.Text,
		IsStaff:    note.IsStaff,
		CreatedAt:  note.CreatedAt,
	}
}

// NoteViews maps a note list to responses.
func NoteViews(notes []domain.Note) []NoteResponse {
	items := make([]NoteResponse, 0, len(notes))
	for i := range notes {
		items = append(items, NoteView(&notes[i]))
	}
	return items
}
