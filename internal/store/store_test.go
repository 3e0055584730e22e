package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixdesk/helixdesk/internal/domain"
)

func TestTicketsSortedNewestFirst(t *testing.T) {
	s := New()
	now := time.Now()
	s.ReplaceTickets([]domain.Ticket{
		{ID: "old", CreatedAt: now.Add(-time.Hour)},
		{ID: "new", CreatedAt: now},
		{ID: "mid", CreatedAt: now.Add(-30 * time.Minute)},
	})

	tickets := s.Tickets()
	require.Len(t, tickets, 3)
	assert.Equal(t, "new", tickets[0].ID)
	assert.Equal(t, "mid", tickets[1].ID)
	assert.Equal(t, "old", tickets[2].ID)
}

func TestTicketsTieBreakOnID(t *testing.T) {
	s := New()
	now := time.Now()
	s.ReplaceTickets([]domain.Ticket{
		{ID: "a", CreatedAt: now},
		{ID: "b", CreatedAt: now},
	})

	tickets := s.Tickets()
	assert.Equal(t, "b", tickets[0].ID)
	assert.Equal(t, "a", tickets[1].ID)
}

func TestApplyTicketIsProvisional(t *testing.T) {
	s := New()
	s.ReplaceTickets([]domain.Ticket{{ID: "t1", Status: domain.TicketStatusOpen}})

	// A local write shows up immediately.
	s.ApplyTicket(domain.Ticket{ID: "t1", Status: domain.TicketStatusInProgress})
	ticket, ok := s.TicketByID("t1")
	require.True(t, ok)
	assert.Equal(t, domain.TicketStatusInProgress, ticket.Status)

	// The authoritative reload wins over the provisional apply.
	s.ReplaceTickets([]domain.Ticket{{ID: "t1", Status: domain.TicketStatusOpen}})
	ticket, ok = s.TicketByID("t1")
	require.True(t, ok)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
}

func TestRemoveTicket(t *testing.T) {
	s := New()
	s.ApplyTicket(domain.Ticket{ID: "t1"})
	s.RemoveTicket("t1")

	_, ok := s.TicketByID("t1")
	assert.False(t, ok)
	assert.Empty(t, s.Tickets())
}

func TestUsersSortedByName(t *testing.T) {
	s := New()
	s.ReplaceUsers([]domain.User{
		{ID: "u2", Name: "Zoe"},
		{ID: "u1", Name: "Amir"},
	})

	users := s.Users()
	require.Len(t, users, 2)
	assert.Equal(t, "Amir", users[0].Name)
	assert.Equal(t, "Zoe", users[1].Name)

	user, ok := s.UserByID("u2")
	require.True(t, ok)
	assert.Equal(t, "Zoe", user.Name)
}

func TestSubscribeNotifiedOnChange(t *testing.T) {
	s := New()
	calls := 0
	s.Subscribe(func() { calls++ })

	s.ApplyTicket(domain.Ticket{ID: "t1"})
	s.ReplaceTickets(nil)
	s.ApplyUser(domain.User{ID: "u1"})
	s.RemoveUser("u1")

	assert.Equal(t, 4, calls)
}
