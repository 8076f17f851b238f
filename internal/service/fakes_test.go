package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// In-memory repository doubles. They mirror the Postgres implementations'
// contract: pgx.ErrNoRows for misses, ErrAlreadyAssigned for double
// assignment, copies on every read so callers never alias the store.

type fakeUserRepo struct {
	mu    sync.Mutex
	byID  map[string]domain.User
	order []string
	seq   int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[string]domain.User{}}
}

func (r *fakeUserRepo) seed(t *testing.T, user domain.User) *domain.User {
	t.Helper()
	require.NoError(t, r.Create(context.Background(), &user))
	return &user
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", r.seq)
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.AssignedTickets == nil {
		user.AssignedTickets = []string{}
	}
	r.byID[user.ID] = copyUser(*user)
	r.order = append(r.order, user.ID)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := copyUser(user)
	return &out, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.order {
		if user := r.byID[id]; user.Email == email {
			out := copyUser(user)
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) SearchStaffByName(_ context.Context, name string) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	needle := strings.ToLower(strings.TrimSpace(name))
	var result []domain.User
	for _, id := range r.order {
		user := r.byID[id]
		if user.IsStaff && strings.Contains(strings.ToLower(user.Name), needle) {
			result = append(result, copyUser(user))
		}
	}
	return result, nil
}

func copyUser(user domain.User) domain.User {
	user.AssignedTickets = append([]string{}, user.AssignedTickets...)
	return user
}

type fakeTicketRepo struct {
	mu    sync.Mutex
	byID  map[string]domain.Ticket
	order []string
	seq   int
	users *fakeUserRepo
}

func newFakeTicketRepo(users *fakeUserRepo) *fakeTicketRepo {
	return &fakeTicketRepo{byID: map[string]domain.Ticket{}, users: users}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if ticket.ID == "" {
		ticket.ID = fmt.Sprintf("ticket-%d", r.seq)
	}
	now := time.Now()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	r.byID[ticket.ID] = *ticket
	r.order = append(r.order, ticket.ID)
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = time.Now()
	r.byID[ticket.ID] = *ticket
	return nil
}

func (r *fakeTicketRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.byID, id)
	for i, tid := range r.order {
		if tid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &ticket, nil
}

func (r *fakeTicketRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []domain.Ticket{}
	for i := len(r.order) - 1; i >= 0; i-- {
		if ticket := r.byID[r.order[i]]; ticket.OwnerID == ownerID {
			result = append(result, ticket)
		}
	}
	return result, nil
}

func (r *fakeTicketRepo) ListByIDs(_ context.Context, ids []string) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []domain.Ticket{}
	for _, id := range ids {
		if ticket, ok := r.byID[id]; ok {
			result = append(result, ticket)
		}
	}
	return result, nil
}

func (r *fakeTicketRepo) ListAll(_ context.Context) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []domain.Ticket{}
	for i := len(r.order) - 1; i >= 0; i-- {
		result = append(result, r.byID[r.order[i]])
	}
	return result, nil
}

func (r *fakeTicketRepo) AssignToStaff(_ context.Context, ticketID, staffID string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.byID[ticketID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if ticket.IsAssigned {
		return nil, repository.ErrAlreadyAssigned
	}

	r.users.mu.Lock()
	staff, ok := r.users.byID[staffID]
	if !ok {
		r.users.mu.Unlock()
		return nil, pgx.ErrNoRows
	}
	staff.AssignedTickets = append(staff.AssignedTickets, ticketID)
	r.users.byID[staffID] = staff
	r.users.mu.Unlock()

	ticket.IsAssigned = true
	ticket.AssignedTo = &staffID
	ticket.Status = domain.TicketStatusOpen
	ticket.UpdatedAt = time.Now()
	r.byID[ticketID] = ticket
	return &ticket, nil
}

type fakeNoteRepo struct {
	mu    sync.Mutex
	notes []domain.Note
	seq   int
	users *fakeUserRepo
}

func newFakeNoteRepo(users *fakeUserRepo) *fakeNoteRepo {
	return &fakeNoteRepo{users: users}
}

func (r *fakeNoteRepo) Create(_ context.Context, note *domain.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	note.ID = fmt.Sprintf("note-%d", r.seq)
	note.CreatedAt = time.Now()
	r.notes = append(r.notes, *note)
	return nil
}

func (r *fakeNoteRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []domain.Note{}
	for _, note := range r.notes {
		if note.TicketID != ticketID {
			continue
		}
		r.users.mu.Lock()
		if author, ok := r.users.byID[note.AuthorID]; ok {
			note.AuthorName = author.Name
		}
		r.users.mu.Unlock()
		result = append(result, note)
	}
	return result, nil
}

// recordingDispatcher captures published events for assertions.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) byType(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var result []events.Event
	for _, event := range d.events {
		if event.Type == eventType {
			result = append(result, event)
		}
	}
	return result
}

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret",
			TokenTTLMinutes: 20,
			BcryptCost:      4,
		},
	}
}

func requireStatus(t *testing.T, err error, status int) *apperrors.DomainError {
	t.Helper()
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	require.Equal(t, status, domainErr.HTTPStatus, "unexpected status for %v", err)
	return domainErr
}
