package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
)

type assignmentFixture struct {
	*ticketFixture
	assign *AssignmentService
}

func newAssignmentFixture(t *testing.T) *assignmentFixture {
	f := newTicketFixture(t)
	return &assignmentFixture{
		ticketFixture: f,
		assign:        NewAssignmentService(f.tickets, f.users, f.dispatcher),
	}
}

func TestAssignTicket(t *testing.T) {
	f := newAssignmentFixture(t)
	ctx := context.Background()
	ticket := f.createTicket(t, f.owner, domain.ProductCustomPC)

	result, err := f.assign.Assign(ctx, f.manager, f.staff.ID, ticket.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusOpen, result.Ticket.Status, "assignment opens a new ticket")
	assert.True(t, result.Ticket.IsAssigned)
	require.NotNil(t, result.Ticket.AssignedTo)
	assert.Equal(t, f.staff.ID, *result.Ticket.AssignedTo)
	assert.Contains(t, result.Staff.AssignedTickets, ticket.ID, "result carries the refreshed assignment list")

	published := f.dispatcher.byType(events.EventTicketAssigned)
	require.Len(t, published, 1)
	assert.Equal(t, ticket.ID, published[0].TicketID)
}

func TestAssignTicketManagerOnly(t *testing.T) {
	f := newAssignmentFixture(t)
	ctx := context.Background()
	ticket := f.createTicket(t, f.owner, domain.ProductCustomPC)

	for _, actor := range []*domain.User{f.owner, f.staff, f.stranger} {
		_, err := f.assign.Assign(ctx, actor, f.staff.ID, ticket.ID)
		requireStatus(t, err, http.StatusForbidden)
	}

	unchanged, err := f.tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.False(t, unchanged.IsAssigned)
}

func TestAssignTicketValidation(t *testing.T) {
	f := newAssignmentFixture(t)
	ctx := context.Background()
	ticket := f.createTicket(t, f.owner, domain.ProductCustomPC)

	_, err := f.assign.Assign(ctx, f.manager, "", ticket.ID)
	requireStatus(t, err, http.StatusBadRequest)

	_, err = f.assign.Assign(ctx, f.manager, f.staff.ID, "")
	requireStatus(t, err, http.StatusBadRequest)

	_, err = f.assign.Assign(ctx, f.manager, "user-missing", ticket.ID)
	requireStatus(t, err, http.StatusNotFound)

	_, err = f.assign.Assign(ctx, f.manager, f.stranger.ID, ticket.ID)
	requireStatus(t, err, http.StatusConflict)

	_, err = f.assign.Assign(ctx, f.manager, f.staff.ID, "ticket-missing")
	requireStatus(t, err, http.StatusNotFound)
}

func TestAssignTicketOnlyOnce(t *testing.T) {
	f := newAssignmentFixture(t)
	ctx := context.Background()
	ticket := f.createTicket(t, f.owner, domain.ProductCustomPC)
	secondStaff := f.users.seed(t, domain.User{Name: "Backup Staff", Email: "backup@example.com", IsStaff: true})

	_, err := f.assign.Assign(ctx, f.manager, f.staff.ID, ticket.ID)
	require.NoError(t, err)

	_, err = f.assign.Assign(ctx, f.manager, secondStaff.ID, ticket.ID)
	requireStatus(t, err, http.StatusConflict)

	// the failed attempt must leave both sides untouched
	current, err := f.tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	require.NotNil(t, current.AssignedTo)
	assert.Equal(t, f.staff.ID, *current.AssignedTo)

	backup, err := f.users.GetByID(ctx, secondStaff.ID)
	require.NoError(t, err)
	assert.Empty(t, backup.AssignedTickets)

	assert.Len(t, f.dispatcher.byType(events.EventTicketAssigned), 1)
}

func TestAssignTicketAppendsInOrder(t *testing.T) {
	f := newAssignmentFixture(t)
	ctx := context.Background()

	first := f.createTicket(t, f.owner, domain.ProductIPhone)
	second := f.createTicket(t, f.owner, domain.ProductSamsung)

	_, err := f.assign.Assign(ctx, f.manager, f.staff.ID, first.ID)
	require.NoError(t, err)
	result, err := f.assign.Assign(ctx, f.manager, f.staff.ID, second.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{first.ID, second.ID}, result.Staff.AssignedTickets)
}
