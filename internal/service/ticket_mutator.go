package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/helixdesk/helixdesk/internal/domain"
	"github.com/helixdesk/helixdesk/internal/events"
	"github.com/helixdesk/helixdesk/internal/observability"
	"github.com/helixdesk/helixdesk/internal/repository"
	"github.com/helixdesk/helixdesk/internal/store"
	apperrors "github.com/helixdesk/helixdesk/pkg/util"
)

// ticketMutator is shared by the workflow and task services: it re-reads the
// authoritative ticket, and after an accepted mutation performs the single
// whole-document write, applies the provisional snapshot and publishes the
// domain event.
type ticketMutator struct {
	tickets    repository.TicketRepository
	snapshot   *store.Store
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
}

func (m ticketMutator) load(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := m.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (m ticketMutator) apply(ctx context.Context, actor *domain.User, ticket *domain.Ticket, operation, taskID string) error {
	if err := m.tickets.Update(ctx, ticket); err != nil {
		return apperrors.MapError(err)
	}
	if m.snapshot != nil {
		m.snapshot.ApplyTicket(*ticket)
	}
	m.metrics.RecordWorkflowOp(operation)
	m.publish(ctx, actor, events.Event{
		Type: events.EventTicketMutated,
		Payload: events.TicketMutatedPayload{
			TicketID:     ticket.ID,
			Operation:    operation,
			Status:       ticket.Status,
			AssignedToID: ticket.AssignedToID,
			TaskID:       taskID,
		},
	})
	return nil
}

func (m ticketMutator) publish(ctx context.Context, actor *domain.User, event events.Event) {
	if m.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if actor != nil {
		event.ActorID = actor.ID
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = m.dispatcher.Publish(ctx, event)
}

// timeNow is swappable in tests.
var timeNow = time.Now

func newLogEntry(actor *domain.User, text string) domain.LogEntry {
	return domain.LogEntry{
		ID:        uuid.NewString(),
		Text:      text,
		CreatedAt: timeNow(),
		UserID:    actor.ID,
		UserName:  actor.Name,
	}
}
