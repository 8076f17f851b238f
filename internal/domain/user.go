package domain

import "time"

// User is the domain model for everyone who can authenticate: end-users,
// staff, and managers. The two role flags are independent; a manager is not
// necessarily staff.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	IsStaff      bool
	IsManager    bool
	// AssignedTickets holds ticket ids in assignment order. Only meaningful
	// for staff users.
	AssignedTickets []string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
