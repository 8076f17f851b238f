package domain

import "time"

// Note is an append-only remark on a ticket. IsStaff is snapshotted from the
// author's role at creation time and never re-derived.
type Note struct {
	ID         string
	TicketID   string
	AuthorID   string
	AuthorName string
	Text       string
	IsStaff    bool
	CreatedAt  time.Time
}
