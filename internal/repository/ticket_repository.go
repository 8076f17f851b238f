package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// ErrAlreadyAssigned signals the single-assignment invariant was hit.
var ErrAlreadyAssigned = errors.New("ticket already assigned")

const ticketColumns = `id, owner_user_id, product, description, status, is_assigned, assigned_to, created_at, updated_at`

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Ticket, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.Ticket, error)
	ListAll(ctx context.Context) ([]domain.Ticket, error)
	AssignToStaff(ctx context.Context, ticketID, staffID string) (*domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (owner_user_id, product, description, status, is_assigned, assigned_to)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.OwnerID,
		ticket.Product,
		ticket.Description,
		ticket.Status,
		ticket.IsAssigned,
		ticket.AssignedTo,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET product=$1, description=$2, status=$3, is_assigned=$4, assigned_to=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.Product,
		ticket.Description,
		ticket.Status,
		ticket.IsAssigned,
		ticket.AssignedTo,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`

	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.OwnerID,
		&ticket.Product,
		&ticket.Description,
		&ticket.Status,
		&ticket.IsAssigned,
		&ticket.AssignedTo,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets WHERE owner_user_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

// ListByIDs returns tickets for the given ids, preserving the order of ids
// (a staff member's assignment list is ordered by assignment time).
func (r *ticketRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Ticket, error) {
	if len(ids) == 0 {
		return []domain.Ticket{}, nil
	}
	const query = `
        SELECT ` + ticketColumns + `
        FROM tickets
        WHERE id = ANY($1::uuid[])
        ORDER BY array_position($1::uuid[], id)`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

// AssignToStaff binds a ticket to a staff member. Both writes run in one
// transaction, and the ticket write is conditional on is_assigned=FALSE:
// concurrent assignment attempts race to this update and exactly one commits.
// Returns ErrAlreadyAssigned when the ticket exists but is already bound,
// pgx.ErrNoRows when it does not exist.
func (r *ticketRepository) AssignToStaff(ctx context.Context, ticketID, staffID string) (*domain.Ticket, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const assign = `
        UPDATE tickets
        SET is_assigned=TRUE, assigned_to=$1, status='open', updated_at=NOW()
        WHERE id=$2 AND is_assigned=FALSE`
	cmd, err := tx.Exec(ctx, assign, staffID, ticketID)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM tickets WHERE id=$1)`, ticketID).Scan(&exists); err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrAlreadyAssigned
		}
		return nil, pgx.ErrNoRows
	}

	const appendRef = `
        UPDATE users
        SET assigned_tickets = array_append(assigned_tickets, $1), updated_at=NOW()
        WHERE id=$2`
	cmd, err = tx.Exec(ctx, appendRef, ticketID, staffID)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, pgx.ErrNoRows
	}

	var ticket domain.Ticket
	if err := tx.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id=$1`, ticketID).Scan(
		&ticket.ID,
		&ticket.OwnerID,
		&ticket.Product,
		&ticket.Description,
		&ticket.Status,
		&ticket.IsAssigned,
		&ticket.AssignedTo,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	result := []domain.Ticket{}
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.OwnerID,
			&ticket.Product,
			&ticket.Description,
			&ticket.Status,
			&ticket.IsAssigned,
			&ticket.AssignedTo,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
