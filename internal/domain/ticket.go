package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusNew    TicketStatus = "new"
	TicketStatusOpen   TicketStatus = "open"
	TicketStatusClosed TicketStatus = "closed"
)

// Product enumerates the fixed support catalog.
type Product string

const (
	ProductIPhone   Product = "iPhone"
	ProductSamsung  Product = "Samsung"
	ProductASUS     Product = "ASUS"
	ProductMSI      Product = "MSI"
	ProductCustomPC Product = "Custom PC"
)

// Products lists the catalog in display order.
var Products = []Product{ProductIPhone, ProductSamsung, ProductASUS, ProductMSI, ProductCustomPC}

// ValidProduct reports whether p is part of the catalog.
func ValidProduct(p Product) bool {
	for _, candidate := range Products {
		if candidate == p {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is a known ticket status.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusNew, TicketStatusOpen, TicketStatusClosed:
		return true
	}
	return false
}

// Ticket is the aggregate for support requests. AssignedTo is set iff
// IsAssigned is true; a ticket is assigned at most once.
type Ticket struct {
	ID          string
	OwnerID     string
	Product     Product
	Description string
	Status      TicketStatus
	IsAssigned  bool
	AssignedTo  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
