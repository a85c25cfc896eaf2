package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-desk/internal/domain"
)

type stepClock struct{ t time.Time }

func (c *stepClock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func seedMemory(t *testing.T) (*MemoryStore, domain.Customer, domain.Admin) {
	t.Helper()
	clock := &stepClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	store := NewMemoryStore().WithClock(clock.now)

	customer := domain.Customer{Name: "Cleo", Email: "cleo@desk.test", PasswordHash: "hash"}
	require.NoError(t, store.Customers().Create(context.Background(), &customer))
	admin := domain.Admin{Name: "Ada", Email: "ada@desk.test", PasswordHash: "hash"}
	require.NoError(t, store.Admins().Create(context.Background(), &admin))
	return store, customer, admin
}

func TestMemoryStore_TicketRoundTrip(t *testing.T) {
	store, customer, admin := seedMemory(t)
	ctx := context.Background()
	tickets := store.Tickets()

	ticket := &domain.Ticket{Subject: "S", Description: "D", Status: domain.TicketStatusOpen, CustomerID: customer.ID}
	require.NoError(t, tickets.Create(ctx, ticket))
	assert.Equal(t, int64(1), ticket.ID)

	got, err := tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, *ticket, *got)

	updated, err := tickets.Update(ctx, ticket.ID, domain.TicketPatch{AdminID: &admin.ID})
	require.NoError(t, err)
	require.NotNil(t, updated.AdminID)
	assert.Equal(t, admin.ID, *updated.AdminID)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	detail, err := tickets.GetDetail(ctx, ticket.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Admin)
	assert.Empty(t, detail.Admin.PasswordHash)
	assert.Empty(t, detail.Customer.PasswordHash)

	snapshot, err := tickets.Delete(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, snapshot.ID)

	_, err = tickets.Delete(ctx, ticket.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = tickets.GetByID(ctx, ticket.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemoryStore_References(t *testing.T) {
	store, customer, _ := seedMemory(t)
	ctx := context.Background()

	err := store.Tickets().Create(ctx, &domain.Ticket{Subject: "S", Description: "D", Status: domain.TicketStatusOpen, CustomerID: 999})
	assert.ErrorIs(t, err, domain.ErrInvalidReference)

	ticket := &domain.Ticket{Subject: "S", Description: "D", Status: domain.TicketStatusOpen, CustomerID: customer.ID}
	require.NoError(t, store.Tickets().Create(ctx, ticket))

	missing := int64(999)
	_, err = store.Tickets().Update(ctx, ticket.ID, domain.TicketPatch{AdminID: &missing})
	assert.ErrorIs(t, err, domain.ErrInvalidReference)

	got, err := store.Tickets().GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AdminID)
}

func TestMemoryStore_ListOrderingAndPaging(t *testing.T) {
	store, customer, _ := seedMemory(t)
	ctx := context.Background()

	other := domain.Customer{Name: "Bo", Email: "bo@desk.test"}
	require.NoError(t, store.Customers().Create(ctx, &other))

	for i := 0; i < 25; i++ {
		owner := customer.ID
		if i%5 == 0 {
			owner = other.ID
		}
		require.NoError(t, store.Tickets().Create(ctx, &domain.Ticket{Subject: "S", Description: "D", Status: domain.TicketStatusOpen, CustomerID: owner}))
	}

	total, err := store.Tickets().Count(ctx, domain.TicketFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)

	page3, err := store.Tickets().List(ctx, domain.TicketFilter{Limit: 10, Offset: 20})
	require.NoError(t, err)
	assert.Len(t, page3, 5)
	assert.Equal(t, int64(5), page3[0].ID)

	first, err := store.Tickets().List(ctx, domain.TicketFilter{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(25), first[0].ID)

	beyond, err := store.Tickets().List(ctx, domain.TicketFilter{Limit: 10, Offset: 100})
	require.NoError(t, err)
	assert.Empty(t, beyond)

	mine, err := store.Tickets().List(ctx, domain.TicketFilter{CustomerID: &other.ID})
	require.NoError(t, err)
	assert.Len(t, mine, 5)
	for _, ticket := range mine {
		assert.Equal(t, other.ID, ticket.CustomerID)
	}
}

func TestMemoryStore_DuplicateEmail(t *testing.T) {
	store, _, _ := seedMemory(t)

	err := store.Customers().Create(context.Background(), &domain.Customer{Name: "x", Email: "CLEO@desk.test"})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	found, err := store.Admins().GetByEmail(context.Background(), "ada@desk.test")
	require.NoError(t, err)
	assert.Equal(t, "Ada", found.Name)
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	store, customer, _ := seedMemory(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Tickets().Create(ctx, &domain.Ticket{Subject: "S", Description: "D", Status: domain.TicketStatusOpen, CustomerID: customer.ID})
	assert.ErrorIs(t, err, context.Canceled)

	total, err := store.Tickets().Count(context.Background(), domain.TicketFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
}
