package domain

// TicketScope describes how much of the ticket store an actor may list.
type TicketScope int

const (
	// ScopeOwned limits listing to tickets the actor created.
	ScopeOwned TicketScope = iota
	// ScopeAssigned limits listing to the actor's AssignedTickets set.
	ScopeAssigned
	// ScopeAll grants visibility over every ticket.
	ScopeAll
)

// ScopeFor resolves the listing scope for an actor. Manager wins over staff
// when both flags are set.
func ScopeFor(actor *User) TicketScope {
	switch {
	case actor.IsManager:
		return ScopeAll
	case actor.IsStaff:
		return ScopeAssigned
	default:
		return ScopeOwned
	}
}

// CanViewTicket reports whether the actor may read the ticket and its notes.
// The owner check runs first so a plain user never depends on role flags.
func CanViewTicket(actor *User, ticket *Ticket) bool {
	if actor.ID == ticket.OwnerID {
		return true
	}
	return actor.IsStaff || actor.IsManager
}

// CanModifyTicket reports whether the actor may update or delete the ticket.
// Mutation is owner-only; staff and managers get no exception.
func CanModifyTicket(actor *User, ticket *Ticket) bool {
	return actor.ID == ticket.OwnerID
}
