package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/helixdesk/helixdesk/internal/events"
	"github.com/helixdesk/helixdesk/internal/persistence"
	"github.com/helixdesk/helixdesk/internal/repository"
)

// Syncer keeps the snapshot store consistent with the document store. Writes
// fan out as change notices over Redis; every instance reloads the affected
// collection when a notice arrives, so the authoritative state always wins
// over provisional applies.
type Syncer struct {
	store   *Store
	tickets repository.TicketRepository
	users   repository.UserRepository
	redis   *persistence.Redis
	logger  *zap.Logger
}

// NewSyncer constructs a syncer.
func NewSyncer(store *Store, tickets repository.TicketRepository, users repository.UserRepository, redis *persistence.Redis, logger *zap.Logger) *Syncer {
	return &Syncer{store: store, tickets: tickets, users: users, redis: redis, logger: logger}
}

// ReloadAll fetches both collections and replaces the snapshot.
func (s *Syncer) ReloadAll(ctx context.Context) error {
	if err := s.reload(ctx, "tickets"); err != nil {
		return err
	}
	return s.reload(ctx, "users")
}

// RegisterNotifier subscribes to domain events and publishes change notices
// to the Redis channel after every accepted mutation.
func (s *Syncer) RegisterNotifier(dispatcher events.Dispatcher) {
	ticketTypes := []events.EventType{events.EventTicketCreated, events.EventTicketMutated, events.EventTicketDeleted}
	for _, t := range ticketTypes {
		dispatcher.Subscribe(t, func(ctx context.Context, _ events.Event) error {
			return s.publish(ctx, "tickets")
		})
	}
	userTypes := []events.EventType{events.EventUserCreated, events.EventUserMutated, events.EventUserDeleted}
	for _, t := range userTypes {
		dispatcher.Subscribe(t, func(ctx context.Context, _ events.Event) error {
			return s.publish(ctx, "users")
		})
	}
}

// Run blocks consuming change notices until ctx is canceled.
func (s *Syncer) Run(ctx context.Context) {
	sub := s.redis.SubscribeChanges(ctx)
	if sub == nil {
		s.logger.Warn("redis unavailable; snapshot will only see local writes")
		return
	}
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := s.reload(ctx, msg.Payload); err != nil {
				s.logger.Error("snapshot reload failed",
					zap.String("collection", msg.Payload), zap.Error(err))
			}
		}
	}
}

func (s *Syncer) publish(ctx context.Context, collection string) error {
	if err := s.redis.PublishChange(ctx, collection); err != nil {
		s.logger.Warn("change notice not published", zap.String("collection", collection), zap.Error(err))
	}
	return nil
}

func (s *Syncer) reload(ctx context.Context, collection string) error {
	switch collection {
	case "tickets":
		tickets, err := s.tickets.ListAll(ctx)
		if err != nil {
			return err
		}
		s.store.ReplaceTickets(tickets)
	case "users":
		users, err := s.users.ListAll(ctx)
		if err != nil {
			return err
		}
		s.store.ReplaceUsers(users)
	}
	return nil
}
