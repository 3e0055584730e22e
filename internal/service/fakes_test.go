package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/helixdesk/helixdesk/internal/domain"
	"github.com/helixdesk/helixdesk/internal/events"
	"github.com/helixdesk/helixdesk/internal/observability"
	"github.com/helixdesk/helixdesk/internal/store"
)

type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets map[string]domain.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[string]domain.Ticket{}}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}
	ticket.CreatedAt = timeNow()
	ticket.UpdatedAt = ticket.CreatedAt
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = timeNow()
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *fakeTicketRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.tickets, id)
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := ticket
	return &copied, nil
}

func (r *fakeTicketRepo) ListAll(_ context.Context) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]domain.Ticket, 0, len(r.tickets))
	for _, t := range r.tickets {
		result = append(result, t)
	}
	return result, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: map[string]domain.User{}}
	for _, u := range users {
		repo.users[u.ID] = *u
	}
	return repo
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = timeNow()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := user
	return &copied, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			copied := user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByClientToken(_ context.Context, token string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.ClientToken != nil && *user.ClientToken == token {
			copied := user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) ListAll(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		result = append(result, u)
	}
	return result, nil
}

// fixture wires the services against in-memory collaborators.
type fixture struct {
	tickets  *fakeTicketRepo
	users    *fakeUserRepo
	snapshot *store.Store
	workflow *WorkflowService
	tasks    *TaskService
}

func newFixture(users ...*domain.User) *fixture {
	ticketRepo := newFakeTicketRepo()
	userRepo := newFakeUserRepo(users...)
	snapshot := store.New()
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	return &fixture{
		tickets:  ticketRepo,
		users:    userRepo,
		snapshot: snapshot,
		workflow: NewWorkflowService(WorkflowDependencies{
			TicketRepo: ticketRepo,
			UserRepo:   userRepo,
			Snapshot:   snapshot,
			Dispatcher: dispatcher,
			Metrics:    metrics,
		}),
		tasks: NewTaskService(TaskDependencies{
			TicketRepo: ticketRepo,
			UserRepo:   userRepo,
			Snapshot:   snapshot,
			Dispatcher: dispatcher,
			Metrics:    metrics,
		}),
	}
}

var (
	testAdmin    = &domain.User{ID: "admin-1", Name: "Ada Admin", Role: domain.RoleAdmin}
	testDev      = &domain.User{ID: "dev-1", Name: "Devin Dev", Role: domain.RoleDeveloper}
	testOtherDev = &domain.User{ID: "dev-2", Name: "Dana Dev", Role: domain.RoleDeveloper}
	testCustomer = &domain.User{ID: "cust-1", Name: "Cleo Customer", Role: domain.RoleCustomer}
)

func allTestUsers() []*domain.User {
	return []*domain.User{testAdmin, testDev, testOtherDev, testCustomer}
}
