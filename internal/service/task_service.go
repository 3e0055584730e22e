package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/helixdesk/helixdesk/internal/domain"
	"github.com/helixdesk/helixdesk/internal/events"
	"github.com/helixdesk/helixdesk/internal/observability"
	"github.com/helixdesk/helixdesk/internal/permission"
	"github.com/helixdesk/helixdesk/internal/repository"
	"github.com/helixdesk/helixdesk/internal/store"
	apperrors "github.com/helixdesk/helixdesk/pkg/util"
)

// TaskService owns the embedded task sub-machine:
// NONE -> PENDING -> APPROVED | REJECTED, with a privileged toggle override.
// Tasks live inside their ticket document; every mutation rewrites the whole
// task array.
type TaskService struct {
	ticketMutator
	users repository.UserRepository
}

// TaskDependencies bundles collaborators for the task service.
type TaskDependencies struct {
	TicketRepo repository.TicketRepository
	UserRepo   repository.UserRepository
	Snapshot   *store.Store
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
}

// TaskCreateInput describes task creation payload.
type TaskCreateInput struct {
	Title        string
	Description  string
	AssignedToID *string
	DueDate      *time.Time
}

// TaskUpdateInput carries editable task fields; nil means unchanged.
type TaskUpdateInput struct {
	Title        *string
	Description  *string
	AssignedToID *string
	DueDate      *time.Time
	ClearDueDate bool
}

// NewTaskService constructs the service.
func NewTaskService(deps TaskDependencies) *TaskService {
	return &TaskService{
		ticketMutator: ticketMutator{
			tickets:    deps.TicketRepo,
			snapshot:   deps.Snapshot,
			dispatcher: deps.Dispatcher,
			metrics:    deps.Metrics,
		},
		users: deps.UserRepo,
	}
}

// Add appends a new task to the ticket.
func (s *TaskService) Add(ctx context.Context, actor *domain.User, ticketID string, input TaskCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("task title required", nil)
	}
	ticket, err := s.load(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !permission.ForTicket(actor, ticket).ManageTasks {
		return nil, apperrors.NewForbidden("task management not permitted on this ticket")
	}
	if input.AssignedToID != nil {
		if err := s.requireStaff(ctx, *input.AssignedToID); err != nil {
			return nil, err
		}
	}

	ticket.Tasks = append(ticket.Tasks, domain.Task{
		ID:             uuid.NewString(),
		Title:          title,
		Description:    strings.TrimSpace(input.Description),
		ApprovalStatus: domain.ApprovalNone,
		AssignedToID:   input.AssignedToID,
		DueDate:        input.DueDate,
	})
	if err := s.apply(ctx, actor, ticket, "add_task", ""); err != nil {
		return nil, err
	}
	return ticket, nil
}

// Update edits task fields.
func (s *TaskService) Update(ctx context.Context, actor *domain.User, ticketID, taskID string, input TaskUpdateInput) (*domain.Ticket, error) {
	ticket, task, err := s.loadTask(ctx, ticketID, taskID)
	if err != nil {
		return nil, err
	}
	if !permission.ForTicket(actor, ticket).ManageTasks {
		return nil, apperrors.NewForbidden("task management not permitted on this ticket")
	}
	if input.AssignedToID != nil && *input.AssignedToID != "" {
		if err := s.requireStaff(ctx, *input.AssignedToID); err != nil {
			return nil, err
		}
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apperrors.NewValidationError("task title required", nil)
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = strings.TrimSpace(*input.Description)
	}
	if input.AssignedToID != nil {
		if *input.AssignedToID == "" {
			task.AssignedToID = nil
		} else {
			task.AssignedToID = input.AssignedToID
		}
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if err := s.apply(ctx, actor, ticket, "update_task", taskID); err != nil {
		return nil, err
	}
	return ticket, nil
}

// Delete soft-deletes a task. The record stays in the ticket so logs and
// reports keep their references.
func (s *TaskService) Delete(ctx context.Context, actor *domain.User, ticketID, taskID string) (*domain.Ticket, error) {
	ticket, task, err := s.loadTask(ctx, ticketID, taskID)
	if err != nil {
		return nil, err
	}
	if !permission.ForTicket(actor, ticket).ManageTasks {
		return nil, apperrors.NewForbidden("task management not permitted on this ticket")
	}

	task.IsDeleted = true
	if err := s.apply(ctx, actor, ticket, "delete_task", taskID); err != nil {
		return nil, err
	}
	return ticket, nil
}

// Claim assigns an unassigned, incomplete task to the acting staff member.
func (s *TaskService) Claim(ctx context.Context, actor *domain.User, ticketID, taskID string) (*domain.Ticket, error) {
	ticket, task, err := s.loadTask(ctx, ticketID, taskID)
	if err != nil {
		return nil, err
	}
	if !permission.ForTask(actor, ticket, task).Claim {
		if !actor.IsStaff() {
			return nil, apperrors.NewForbidden("staff role required to claim tasks")
		}
		return nil, apperrors.NewConflict("task can no longer be claimed", nil)
	}

	task.AssignedToID = &actor.ID
	if err := s.apply(ctx, actor, ticket, "claim_task", taskID); err != nil {
		return nil, err
	}
	return ticket, nil
}

// Assign lets an admin point any task at any staff member, regardless of the
// task's state. Used to redirect work.
func (s *TaskService) Assign(ctx context.Context, actor *domain.User, ticketID, taskID, assigneeID string) (*domain.Ticket, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, apperrors.NewForbidden("admin role required to assign tasks")
	}
	ticket, task, err := s.loadTask(ctx, ticketID, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.requireStaff(ctx, assigneeID); err != nil {
		return nil, err
	}

	task.AssignedToID = &assigneeID
	if err := s.apply(ctx, actor, ticket, "assign_task", taskID); err != nil {
		return nil, err
	}
	return ticket, nil
}

// Submit puts the task under review with an optional note and attachments.
// Re-submission after a rejection overwrites the previous submission.
func (s *TaskService) Submit(ctx context.Context, actor *domain.User, ticketID, taskID, note string, attachments []domain.Attachment) (*domain.Ticket, error) {
	ticket, task, err := s.loadTask(ctx, ticketID, taskID)
	if err != nil {
		return nil, err
	}
	if !permission.ForTask(actor, ticket, task).Submit {
		isTaskAssignee := task.AssignedToID != nil && *task.AssignedToID == actor.ID
		if !isTaskAssignee && actor.Role != domain.RoleAdmin {
			return nil, apperrors.NewForbidden("only the task assignee or an admin may submit")
		}
		return nil, apperrors.NewConflict("task is not submittable in its current state", nil)
	}

	task.ApprovalStatus = domain.ApprovalPending
	task.Submission = &domain.TaskSubmission{
		Note:        strings.TrimSpace(note),
		Attachments: attachments,
		SubmittedAt: timeNow(),
	}
	if err := s.apply(ctx, actor, ticket, "submit_task", taskID); err != nil {
		return nil, err
	}
	return ticket, nil
}

// Approve accepts a PENDING submission, completing the task.
func (s *TaskService) Approve(ctx context.Context, actor *domain.User, ticketID, taskID string) (*domain.Ticket, error) {
	ticket, task, err := s.reviewable(ctx, actor, ticketID, taskID)
	if err != nil {
		return nil, err
	}

	task.ApprovalStatus = domain.ApprovalApproved
	task.IsCompleted = true
	if err := s.apply(ctx, actor, ticket, "approve_task", taskID); err != nil {
		return nil, err
	}
	return ticket, nil
}

// Reject sends a PENDING submission back; the task stays incomplete and can
// be resubmitted.
func (s *TaskService) Reject(ctx context.Context, actor *domain.User, ticketID, taskID string) (*domain.Ticket, error) {
	ticket, task, err := s.reviewable(ctx, actor, ticketID, taskID)
	if err != nil {
		return nil, err
	}

	task.ApprovalStatus = domain.ApprovalRejected
	task.IsCompleted = false
	if err := s.apply(ctx, actor, ticket, "reject_task", taskID); err != nil {
		return nil, err
	}
	return ticket, nil
}

// Toggle flips completion directly, bypassing PENDING. Privileged override
// for reviewers; approval lands on APPROVED or back on NONE so the
// completed-iff-approved invariant holds.
func (s *TaskService) Toggle(ctx context.Context, actor *domain.User, ticketID, taskID string) (*domain.Ticket, error) {
	ticket, task, err := s.loadTask(ctx, ticketID, taskID)
	if err != nil {
		return nil, err
	}
	if !permission.ForTask(actor, ticket, task).Toggle {
		return nil, apperrors.NewForbidden("toggle override not permitted")
	}

	task.IsCompleted = !task.IsCompleted
	if task.IsCompleted {
		task.ApprovalStatus = domain.ApprovalApproved
	} else {
		task.ApprovalStatus = domain.ApprovalNone
	}
	if err := s.apply(ctx, actor, ticket, "toggle_task", taskID); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (s *TaskService) reviewable(ctx context.Context, actor *domain.User, ticketID, taskID string) (*domain.Ticket, *domain.Task, error) {
	ticket, task, err := s.loadTask(ctx, ticketID, taskID)
	if err != nil {
		return nil, nil, err
	}
	if !permission.ForTask(actor, ticket, task).Review {
		return nil, nil, apperrors.NewForbidden("review rights belong to admins and the ticket's assignee")
	}
	if task.ApprovalStatus != domain.ApprovalPending {
		return nil, nil, apperrors.NewConflict("task is not awaiting review", nil)
	}
	return ticket, task, nil
}

func (s *TaskService) loadTask(ctx context.Context, ticketID, taskID string) (*domain.Ticket, *domain.Task, error) {
	ticket, err := s.load(ctx, ticketID)
	if err != nil {
		return nil, nil, err
	}
	idx := ticket.TaskIndex(taskID)
	if idx < 0 || ticket.Tasks[idx].IsDeleted {
		return nil, nil, apperrors.NewNotFound("task", map[string]any{"task_id": taskID})
	}
	return ticket, &ticket.Tasks[idx], nil
}

func (s *TaskService) requireStaff(ctx context.Context, userID string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return apperrors.MapError(err)
	}
	if !user.IsStaff() {
		return apperrors.NewValidationError("assignee must be staff", nil)
	}
	return nil
}
