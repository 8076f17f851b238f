package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Product     domain.Product `json:"product" validate:"required,oneof=iPhone Samsung ASUS MSI 'Custom PC'"`
	Description string         `json:"description" validate:"required"`
}

// UpdateTicketRequest is a field-by-field patch; nil fields are untouched.
type UpdateTicketRequest struct {
	Product     *domain.Product      `json:"product" validate:"omitempty,oneof=iPhone Samsung ASUS MSI 'Custom PC'"`
	Description *string              `json:"description" validate:"omitempty,min=1"`
	Status      *domain.TicketStatus `json:"status" validate:"omitempty,oneof=new open closed"`
}

// AssignTicketRequest binds a ticket to a staff member.
type AssignTicketRequest struct {
	StaffID  string `json:"staffId" validate:"required"`
	TicketID string `json:"ticketId" validate:"required"`
}

// AssigneeInfo names the staff member a ticket is bound to.
type AssigneeInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TicketResponse is the wire view of a ticket.
type TicketResponse struct {
	ID          string              `json:"id"`
	UserID      string              `json:"userId"`
	Product     domain.Product      `json:"product"`
	Description string              `json:"description"`
	Status      domain.TicketStatus `json:"status"`
	IsAssigned  bool                `json:"isAssigned"`
	AssignedTo  *string             `json:"assignedTo,omitempty"`
	Assignee    *AssigneeInfo       `json:"assignee,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// TicketView builds the response view of a ticket, optionally populated with
// its assignee's identity.
func TicketView(ticket *domain.Ticket, assignee *domain.User) TicketResponse {
	resp := TicketResponse{
		ID:          ticket.ID,
		UserID:      ticket.OwnerID,
		Product:     ticket.Product,
		Description: ticket.Description,
		Status:      ticket.Status,
		IsAssigned:  ticket.IsAssigned,
		AssignedTo:  ticket.AssignedTo,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
	}
	if assignee != nil {
		resp.Assignee = &AssigneeInfo{ID: assignee.ID, Name: assignee.Name, Email: assignee.Email}
	}
	return resp
}

// TicketViews maps a ticket list to responses.
func TicketViews(tickets []domain.Ticket) []TicketResponse {
	items := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, TicketView(&tickets[i], nil))
	}
	return items
}
