// Package store owns the live in-memory snapshot of users and tickets. The
// workflow engine applies accepted mutations provisionally; the authoritative
// snapshot re-delivered from the persistence layer always wins and replaces
// the provisional state wholesale.
package store

import (
	"sort"
	"sync"

	"github.com/helixdesk/helixdesk/internal/domain"
)

// Store holds the current snapshot and notifies subscribers on change.
type Store struct {
	mu      sync.RWMutex
	users   map[string]domain.User
	tickets map[string]domain.Ticket
	subs    []func()
}

// New creates an empty store.
func New() *Store {
	return &Store{
		users:   make(map[string]domain.User),
		tickets: make(map[string]domain.Ticket),
	}
}

// Subscribe registers a callback invoked after every snapshot change.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *Store) notify() {
	s.mu.RLock()
	subs := append([]func(){}, s.subs...)
	s.mu.RUnlock()
	for _, fn := range subs {
		fn()
	}
}

// ReplaceTickets installs the authoritative ticket collection, discarding any
// provisional state.
func (s *Store) ReplaceTickets(tickets []domain.Ticket) {
	s.mu.Lock()
	s.tickets = make(map[string]domain.Ticket, len(tickets))
	for _, t := range tickets {
		s.tickets[t.ID] = t
	}
	s.mu.Unlock()
	s.notify()
}

// ReplaceUsers installs the authoritative user collection.
func (s *Store) ReplaceUsers(users []domain.User) {
	s.mu.Lock()
	s.users = make(map[string]domain.User, len(users))
	for _, u := range users {
		s.users[u.ID] = u
	}
	s.mu.Unlock()
	s.notify()
}

// ApplyTicket upserts one ticket provisionally, ahead of the next
// authoritative reload.
func (s *Store) ApplyTicket(ticket domain.Ticket) {
	s.mu.Lock()
	s.tickets[ticket.ID] = ticket
	s.mu.Unlock()
	s.notify()
}

// RemoveTicket drops a ticket provisionally after a delete.
func (s *Store) RemoveTicket(id string) {
	s.mu.Lock()
	delete(s.tickets, id)
	s.mu.Unlock()
	s.notify()
}

// ApplyUser upserts one user provisionally.
func (s *Store) ApplyUser(user domain.User) {
	s.mu.Lock()
	s.users[user.ID] = user
	s.mu.Unlock()
	s.notify()
}

// RemoveUser drops a user provisionally after a delete.
func (s *Store) RemoveUser(id string) {
	s.mu.Lock()
	delete(s.users, id)
	s.mu.Unlock()
	s.notify()
}

// Tickets returns a copy of all tickets sorted by creation time descending,
// the ordering every list view uses.
func (s *Store) Tickets() []domain.Ticket {
	s.mu.RLock()
	result := make([]domain.Ticket, 0, len(s.tickets))
	for _, t := range s.tickets {
		result = append(result, t)
	}
	s.mu.RUnlock()
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

// TicketByID returns one ticket from the snapshot.
func (s *Store) TicketByID(id string) (domain.Ticket, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tickets[id]
	return t, ok
}

// Users returns a copy of all users sorted by name.
func (s *Store) Users() []domain.User {
	s.mu.RLock()
	result := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		result = append(result, u)
	}
	s.mu.RUnlock()
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// UserByID returns one user from the snapshot.
func (s *Store) UserByID(id string) (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	return u, ok
}
