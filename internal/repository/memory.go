package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
)

// MemoryStore keeps customers, admins and tickets in process memory. It backs
// the API when no database is configured and serves as the store in tests.
type MemoryStore struct {
	mu        sync.RWMutex
	now       func() time.Time
	customers map[int64]domain.Customer
	admins    map[int64]domain.Admin
	tickets   map[int64]domain.Ticket
	nextID    map[string]int64
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:       time.Now,
		customers: make(map[int64]domain.Customer),
		admins:    make(map[int64]domain.Admin),
		tickets:   make(map[int64]domain.Ticket),
		nextID:    make(map[string]int64),
	}
}

// WithClock replaces the time source used for created_at/updated_at.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	return s
}

// Tickets returns the ticket repository view of the store.
func (s *MemoryStore) Tickets() TicketRepository { return memoryTickets{s} }

// Customers returns the customer repository view of the store.
func (s *MemoryStore) Customers() CustomerRepository { return memoryCustomers{s} }

// Admins returns the admin repository view of the store.
func (s *MemoryStore) Admins() AdminRepository { return memoryAdmins{s} }

func (s *MemoryStore) allocate(seq string) int64 {
	s.nextID[seq]++
	return s.nextID[seq]
}

type memoryTickets struct{ s *MemoryStore }

func (m memoryTickets) Create(ctx context.Context, ticket *domain.Ticket) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, ok := m.s.customers[ticket.CustomerID]; !ok {
		return fmt.Errorf("ticket new: customer %d: %w", ticket.CustomerID, domain.ErrInvalidReference)
	}
	if ticket.AdminID != nil {
		if _, ok := m.s.admins[*ticket.AdminID]; !ok {
			return fmt.Errorf("ticket new: admin %d: %w", *ticket.AdminID, domain.ErrInvalidReference)
		}
	}
	now := m.s.now()
	ticket.ID = m.s.allocate("tickets")
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	m.s.tickets[ticket.ID] = cloneTicket(*ticket)
	return nil
}

func (m memoryTickets) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	ticket, ok := m.s.tickets[id]
	if !ok {
		return nil, fmt.Errorf("ticket %d: %w", id, domain.ErrNotFound)
	}
	out := cloneTicket(ticket)
	return &out, nil
}

func (m memoryTickets) GetDetail(ctx context.Context, id int64) (*domain.TicketDetail, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	ticket, ok := m.s.tickets[id]
	if !ok {
		return nil, fmt.Errorf("ticket %d: %w", id, domain.ErrNotFound)
	}
	detail := domain.TicketDetail{Ticket: cloneTicket(ticket)}
	if customer, ok := m.s.customers[ticket.CustomerID]; ok {
		customer.PasswordHash = ""
		detail.Customer = &customer
	}
	if ticket.AdminID != nil {
		if admin, ok := m.s.admins[*ticket.AdminID]; ok {
			admin.PasswordHash = ""
			detail.Admin = &admin
		}
	}
	return &detail, nil
}

func (m memoryTickets) List(ctx context.Context, filter domain.TicketFilter) ([]domain.Ticket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.s.mu.RLock()
	matched := m.s.filterLocked(filter)
	m.s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return []domain.Ticket{}, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (m memoryTickets) Count(ctx context.Context, filter domain.TicketFilter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	return int64(len(m.s.filterLocked(filter))), nil
}

func (m memoryTickets) Update(ctx context.Context, id int64, patch domain.TicketPatch) (*domain.Ticket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	ticket, ok := m.s.tickets[id]
	if !ok {
		return nil, fmt.Errorf("ticket %d: %w", id, domain.ErrNotFound)
	}
	if patch.AdminID != nil {
		if _, ok := m.s.admins[*patch.AdminID]; !ok {
			return nil, fmt.Errorf("ticket %d: admin %d: %w", id, *patch.AdminID, domain.ErrInvalidReference)
		}
	}
	patch.Apply(&ticket)
	ticket.UpdatedAt = m.s.now()
	m.s.tickets[id] = ticket
	out := cloneTicket(ticket)
	return &out, nil
}

func (m memoryTickets) Delete(ctx context.Context, id int64) (*domain.Ticket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	ticket, ok := m.s.tickets[id]
	if !ok {
		return nil, fmt.Errorf("ticket %d: %w", id, domain.ErrNotFound)
	}
	delete(m.s.tickets, id)
	return &ticket, nil
}

func (s *MemoryStore) filterLocked(filter domain.TicketFilter) []domain.Ticket {
	matched := make([]domain.Ticket, 0, len(s.tickets))
	for _, ticket := range s.tickets {
		if filter.CustomerID != nil && ticket.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.Status != nil && ticket.Status != *filter.Status {
			continue
		}
		matched = append(matched, cloneTicket(ticket))
	}
	return matched
}

func cloneTicket(t domain.Ticket) domain.Ticket {
	if t.AdminID != nil {
		id := *t.AdminID
		t.AdminID = &id
	}
	return t
}

type memoryCustomers struct{ s *MemoryStore }

func (m memoryCustomers) Create(ctx context.Context, customer *domain.Customer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	for _, existing := range m.s.customers {
		if strings.EqualFold(existing.Email, customer.Email) {
			return fmt.Errorf("customer %s: %w", customer.Email, domain.ErrAlreadyExists)
		}
	}
	customer.ID = m.s.allocate("customers")
	customer.CreatedAt = m.s.now()
	m.s.customers[customer.ID] = *customer
	return nil
}

func (m memoryCustomers) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	customer, ok := m.s.customers[id]
	if !ok {
		return nil, fmt.Errorf("customer %d: %w", id, domain.ErrNotFound)
	}
	return &customer, nil
}

func (m memoryCustomers) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	for _, customer := range m.s.customers {
		if strings.EqualFold(customer.Email, email) {
			return &customer, nil
		}
	}
	return nil, fmt.Errorf("customer %s: %w", email, domain.ErrNotFound)
}

type memoryAdmins struct{ s *MemoryStore }

func (m memoryAdmins) Create(ctx context.Context, admin *domain.Admin) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	for _, existing := range m.s.admins {
		if strings.EqualFold(existing.Email, admin.Email) {
			return fmt.Errorf("admin %s: %w", admin.Email, domain.ErrAlreadyExists)
		}
	}
	admin.ID = m.s.allocate("admins")
	admin.CreatedAt = m.s.now()
	m.s.admins[admin.ID] = *admin
	return nil
}

func (m memoryAdmins) GetByID(ctx context.Context, id int64) (*domain.Admin, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	admin, ok := m.s.admins[id]
	if !ok {
		return nil, fmt.Errorf("admin %d: %w", id, domain.ErrNotFound)
	}
	return &admin, nil
}

func (m memoryAdmins) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	for _, admin := range m.s.admins {
		if strings.EqualFold(admin.Email, email) {
			return &admin, nil
		}
	}
	return nil, fmt.Errorf("admin %s: %w", email, domain.ErrNotFound)
}
