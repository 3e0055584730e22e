package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/helixdesk/helixdesk/internal/advisor"
	"github.com/helixdesk/helixdesk/internal/domain"
	"github.com/helixdesk/helixdesk/internal/events"
	"github.com/helixdesk/helixdesk/internal/observability"
	"github.com/helixdesk/helixdesk/internal/permission"
	"github.com/helixdesk/helixdesk/internal/repository"
	"github.com/helixdesk/helixdesk/internal/store"
	apperrors "github.com/helixdesk/helixdesk/pkg/util"
)

// WorkflowService owns the ticket state machine. Every operation re-validates
// its precondition against the current stored ticket before applying; a
// failed check returns a typed error and touches nothing.
type WorkflowService struct {
	ticketMutator
	users   repository.UserRepository
	advisor advisor.Advisor
}

// WorkflowDependencies bundles collaborators for the workflow service.
type WorkflowDependencies struct {
	TicketRepo repository.TicketRepository
	UserRepo   repository.UserRepository
	Snapshot   *store.Store
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Advisor    advisor.Advisor
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Type        domain.TicketType
	Priority    domain.TicketPriority
	Attachments []domain.Attachment
}

// NewWorkflowService constructs the service.
func NewWorkflowService(deps WorkflowDependencies) *WorkflowService {
	adv := deps.Advisor
	if adv == nil {
		adv = advisor.Noop{}
	}
	return &WorkflowService{
		ticketMutator: ticketMutator{
			tickets:    deps.TicketRepo,
			snapshot:   deps.Snapshot,
			dispatcher: deps.Dispatcher,
			metrics:    deps.Metrics,
		},
		users:   deps.UserRepo,
		advisor: adv,
	}
}

// CreateTicket opens a new ticket for the acting user. Missing priority/type
// fall back to the fixed defaults the advisory path also uses.
func (s *WorkflowService) CreateTicket(ctx context.Context, actor *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}

	ticket := &domain.Ticket{
		Title:         title,
		Description:   strings.TrimSpace(input.Description),
		Type:          input.Type,
		Priority:      input.Priority,
		Status:        domain.TicketStatusOpen,
		CreatedByID:   actor.ID,
		CreatedByName: actor.Name,
		Tasks:         []domain.Task{},
		Attachments:   input.Attachments,
		Logs:          []domain.LogEntry{newLogEntry(actor, "Ticket created")},
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}
	if ticket.Type == "" {
		ticket.Type = domain.TicketTypeSelfInitiation
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if s.snapshot != nil {
		s.snapshot.ApplyTicket(*ticket)
	}
	s.metrics.RecordWorkflowOp("create")
	s.publish(ctx, actor, events.Event{
		Type: events.EventTicketCreated,
		Payload: events.TicketCreatedPayload{
			TicketID: ticket.ID,
			Type:     ticket.Type,
			Priority: ticket.Priority,
			Title:    ticket.Title,
		},
	})
	return ticket, nil
}

// GetTicket fetches a ticket enforcing view permission.
func (s *WorkflowService) GetTicket(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.load(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !permission.CanViewTicket(actor, ticket) {
		return nil, apperrors.NewForbidden("not your ticket")
	}
	return ticket, nil
}

// Claim assigns an OPEN, unassigned ticket to the acting staff member and
// moves it to IN_PROGRESS.
func (s *WorkflowService) Claim(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.load(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !permission.ForTicket(actor, ticket).Claim {
		if !actor.IsStaff() {
			return nil, apperrors.NewForbidden("staff role required to claim")
		}
		return nil, apperrors.NewConflict("ticket can no longer be claimed", nil)
	}

	ticket.AssignedToID = &actor.ID
	ticket.Status = domain.TicketStatusInProgress
	ticket.AppendLog(newLogEntry(actor, "Ticket claimed"))
	if err := s.apply(ctx, actor, ticket, "claim", ""); err != nil {
		return nil, err
	}
	return ticket, nil
}

// Assign lets an admin set or change the assignee while the ticket is OPEN or
// IN_PROGRESS. The ticket moves to IN_PROGRESS.
func (s *WorkflowService) Assign(ctx context.Context, actor *domain.User, ticketID, assigneeID string) (*domain.Ticket, error) {
	ticket, err := s.load(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !permission.ForTicket(actor, ticket).Reassign {
		if actor.Role != domain.RoleAdmin {
			return nil, apperrors.NewForbidden("admin role required to assign")
		}
		return nil, apperrors.NewConflict("ticket cannot be assigned in its current status", nil)
	}

	assignee, err := s.users.GetByID(ctx, assigneeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": assigneeID})
		}
		return nil, apperrors.MapError(err)
	}
	if !assignee.IsStaff() {
		return nil, apperrors.NewValidationError("assignee must be staff", nil)
	}

	ticket.AssignedToID = &assignee.ID
	ticket.Status = domain.TicketStatusInProgress
	ticket.AppendLog(newLogEntry(actor, "Ticket assigned"))
	if err := s.apply(ctx, actor, ticket, "assign", ""); err != nil {
		return nil, err
	}
	return ticket, nil
}

// RejectNew closes a brand-new OPEN ticket with a reason, before any work
// starts.
func (s *WorkflowService) RejectNew(ctx context.Context, actor *domain.User, ticketID, reason string) (*domain.Ticket, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.NewValidationError("rejection reason required", nil)
	}
	ticket, err := s.load(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !permission.ForTicket(actor, ticket).RejectNew {
		if actor.Role != domain.RoleAdmin {
			return nil, apperrors.NewForbidden("admin role required to reject new tickets")
		}
		return nil, apperrors.NewConflict("only open tickets can be rejected outright", nil)
	}

	ticket.Status = domain.TicketStatusClosed
	ticket.Rejection = &domain.Rejection{Reason: reason, RejectedAt: timeNow()}
	ticket.AppendLog(newLogEntry(actor, fmt.Sprintf("New ticket rejected (Reason: %s)", reason)))
	if err := s.apply(ctx, actor, ticket, "reject_new", ""); err != nil {
		return nil, err
	}
	return ticket, nil
}

// SubmitResolution moves an IN_PROGRESS ticket with every active task
// completed to RESOLVED, recording the resolution note and attachments for
// the creator to judge.
func (s *WorkflowService) SubmitResolution(ctx context.Context, actor *domain.User, ticketID, note string, attachments []domain.Attachment) (*domain.Ticket, error) {
	ticket, err := s.load(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !permission.ForTicket(actor, ticket).SubmitResolution {
		isAssignee := ticket.AssignedToID != nil && *ticket.AssignedToID == actor.ID
		if actor.Role != domain.RoleAdmin && !isAssignee {
			return nil, apperrors.NewForbidden("only the assignee or an admin may resolve")
		}
		if !ticket.AllTasksApproved() {
			return nil, apperrors.NewConflict("all active tasks must be completed first", nil)
		}
		return nil, apperrors.NewConflict("ticket is not in progress", nil)
	}

	ticket.Status = domain.TicketStatusResolved
	ticket.Resolution = &domain.Resolution{
		Note:        strings.TrimSpace(note),
		Attachments: attachments,
		ResolvedAt:  timeNow(),
	}
	ticket.AppendLog(newLogEntry(actor, "Ticket resolved"))
	if err := s.apply(ctx, actor, ticket, "resolve", ""); err != nil {
		return nil, err
	}
	return ticket, nil
}

// AcceptResolution closes a RESOLVED ticket. Creator only.
func (s *WorkflowService) AcceptResolution(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.load(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !permission.ForTicket(actor, ticket).AcceptResolution {
		if ticket.CreatedByID != actor.ID {
			return nil, apperrors.NewForbidden("only the ticket creator may accept the resolution")
		}
		return nil, apperrors.NewConflict("ticket is not awaiting approval", nil)
	}

	ticket.Status = domain.TicketStatusClosed
	ticket.AppendLog(newLogEntry(actor, "Ticket accepted and closed"))
	if err := s.apply(ctx, actor, ticket, "accept", ""); err != nil {
		return nil, err
	}
	return ticket, nil
}

// RejectResolution sends a RESOLVED ticket back to IN_PROGRESS with the
// creator's reason. Creator only.
func (s *WorkflowService) RejectResolution(ctx context.Context, actor *domain.User, ticketID, reason string, attachments []domain.Attachment) (*domain.Ticket, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.NewValidationError("rejection reason required", nil)
	}
	ticket, err := s.load(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !permission.ForTicket(actor, ticket).RejectResolution {
		if ticket.CreatedByID != actor.ID {
			return nil, apperrors.NewForbidden("only the ticket creator may reject the resolution")
		}
		return nil, apperrors.NewConflict("ticket is not awaiting approval", nil)
	}

	ticket.Status = domain.TicketStatusInProgress
	ticket.Rejection = &domain.Rejection{
		Reason:      reason,
		Attachments: attachments,
		RejectedAt:  timeNow(),
	}
	ticket.AppendLog(newLogEntry(actor, fmt.Sprintf("Ticket rejected (Reason: %s)", reason)))
	if err := s.apply(ctx, actor, ticket, "reject_resolution", ""); err != nil {
		return nil, err
	}
	return ticket, nil
}

// Cancel closes a ticket in any non-CLOSED status. Creator only.
func (s *WorkflowService) Cancel(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.load(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !permission.ForTicket(actor, ticket).Cancel {
		if ticket.CreatedByID != actor.ID {
			return nil, apperrors.NewForbidden("only the ticket creator may cancel")
		}
		return nil, apperrors.NewConflict("ticket is already closed", nil)
	}

	ticket.Status = domain.TicketStatusClosed
	ticket.AppendLog(newLogEntry(actor, domain.LogTicketCanceled))
	if err := s.apply(ctx, actor, ticket, "cancel", ""); err != nil {
		return nil, err
	}
	return ticket, nil
}

// Delete hard-deletes a ticket. Admin escape hatch outside the state machine.
func (s *WorkflowService) Delete(ctx context.Context, actor *domain.User, ticketID string) error {
	if actor.Role != domain.RoleAdmin {
		return apperrors.NewForbidden("admin role required to delete tickets")
	}
	if err := s.tickets.Delete(ctx, ticketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return apperrors.MapError(err)
	}
	if s.snapshot != nil {
		s.snapshot.RemoveTicket(ticketID)
	}
	s.metrics.RecordWorkflowOp("delete")
	s.publish(ctx, actor, events.Event{
		Type:    events.EventTicketDeleted,
		Payload: events.TicketDeletedPayload{TicketID: ticketID},
	})
	return nil
}

// AddAttachments appends uploaded file metadata to the ticket document.
func (s *WorkflowService) AddAttachments(ctx context.Context, actor *domain.User, ticketID string, attachments []domain.Attachment) (*domain.Ticket, error) {
	if len(attachments) == 0 {
		return nil, apperrors.NewValidationError("no attachments provided", nil)
	}
	ticket, err := s.load(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !permission.CanViewTicket(actor, ticket) {
		return nil, apperrors.NewForbidden("not your ticket")
	}
	for i := range attachments {
		if attachments[i].ID == "" {
			attachments[i].ID = uuid.NewString()
		}
	}
	ticket.Attachments = append(ticket.Attachments, attachments...)
	if err := s.apply(ctx, actor, ticket, "add_attachments", ""); err != nil {
		return nil, err
	}
	return ticket, nil
}

// GenerateTasks asks the advisor for a task breakdown and appends each title
// as a new unassigned task with an empty description. Advisory absence or
// failure yields no error; the ticket simply gains whatever came back.
func (s *WorkflowService) GenerateTasks(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.load(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !permission.ForTicket(actor, ticket).ManageTasks {
		return nil, apperrors.NewForbidden("task management not permitted on this ticket")
	}

	titles := s.advisor.GenerateTasks(ctx, ticket)
	if len(titles) == 0 {
		return ticket, nil
	}
	for _, title := range titles {
		ticket.Tasks = append(ticket.Tasks, domain.Task{
			ID:             uuid.NewString(),
			Title:          title,
			ApprovalStatus: domain.ApprovalNone,
		})
	}
	if err := s.apply(ctx, actor, ticket, "generate_tasks", ""); err != nil {
		return nil, err
	}
	return ticket, nil
}

// SuggestPriorityType classifies a draft ticket via the advisor, falling back
// to MEDIUM / SELF_INITIATION.
func (s *WorkflowService) SuggestPriorityType(ctx context.Context, title, description string) advisor.Suggestion {
	return s.advisor.SuggestPriorityType(ctx, title, description)
}
