package service

import (
	"strings"

	"github.com/helixdesk/helixdesk/internal/domain"
	"github.com/helixdesk/helixdesk/internal/permission"
	"github.com/helixdesk/helixdesk/internal/store"
	apperrors "github.com/helixdesk/helixdesk/pkg/util"
)

// ViewService computes role-specific projections over the live snapshot.
// Everything here is recomputed on read; nothing is cached or mutated.
type ViewService struct {
	snapshot *store.Store
}

// NewViewService constructs the service.
func NewViewService(snapshot *store.Store) *ViewService {
	return &ViewService{snapshot: snapshot}
}

// TaskRef is a task paired with its owning ticket's context, the shape every
// cross-ticket task view uses.
type TaskRef struct {
	domain.Task
	TicketID           string  `json:"ticket_id"`
	TicketTitle        string  `json:"ticket_title"`
	TicketAssignedToID *string `json:"ticket_assigned_to_id"`
}

// ApprovalsView bundles everything awaiting the actor's judgment.
type ApprovalsView struct {
	Tickets []domain.Ticket `json:"tickets"`
	Tasks   []TaskRef       `json:"tasks"`
}

// TaskHistoryView splits completed tasks into the actor's own and everyone's.
type TaskHistoryView struct {
	Mine []TaskRef `json:"mine"`
	All  []TaskRef `json:"all"`
}

// UserReport aggregates a staff member's delivered work.
type UserReport struct {
	UserID         string          `json:"user_id"`
	UserName       string          `json:"user_name"`
	ClosedTickets  []domain.Ticket `json:"closed_tickets"`
	CompletedTasks []TaskRef       `json:"completed_tasks"`
}

// ListTickets returns the tickets visible to the actor, newest first.
func (s *ViewService) ListTickets(actor *domain.User) []domain.Ticket {
	return VisibleTickets(actor, s.snapshot.Tickets())
}

// TaskPool returns unassigned, incomplete tasks across all tickets.
func (s *ViewService) TaskPool(actor *domain.User) ([]TaskRef, error) {
	if !actor.IsStaff() {
		return nil, apperrors.NewForbidden("staff view")
	}
	return ProjectTaskPool(s.snapshot.Tickets()), nil
}

// MyTasks returns the actor's open assignments.
func (s *ViewService) MyTasks(actor *domain.User) ([]TaskRef, error) {
	if !actor.IsStaff() {
		return nil, apperrors.NewForbidden("staff view")
	}
	return ProjectMyTasks(actor.ID, s.snapshot.Tickets()), nil
}

// OngoingTasks returns every claimed, incomplete task. Admin overview.
func (s *ViewService) OngoingTasks(actor *domain.User) ([]TaskRef, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, apperrors.NewForbidden("admin view")
	}
	return ProjectOngoingTasks(s.snapshot.Tickets()), nil
}

// Approvals returns resolutions and task submissions awaiting the actor.
func (s *ViewService) Approvals(actor *domain.User) ApprovalsView {
	return ProjectApprovals(actor, s.snapshot.Tickets())
}

// HistoryTickets returns finished tickets visible to the actor.
func (s *ViewService) HistoryTickets(actor *domain.User) []domain.Ticket {
	return ProjectTicketHistory(actor, s.snapshot.Tickets())
}

// HistoryTasks returns completed tasks, mine vs all.
func (s *ViewService) HistoryTasks(actor *domain.User) (TaskHistoryView, error) {
	if !actor.IsStaff() {
		return TaskHistoryView{}, apperrors.NewForbidden("staff view")
	}
	return ProjectTaskHistory(actor.ID, s.snapshot.Tickets()), nil
}

// Reports aggregates delivered work per staff member.
func (s *ViewService) Reports(actor *domain.User) ([]UserReport, error) {
	if !actor.IsStaff() {
		return nil, apperrors.NewForbidden("staff view")
	}
	return ProjectReports(s.snapshot.Users(), s.snapshot.Tickets()), nil
}

// VisibleTickets filters the collection down to what the actor may see:
// staff see everything, customers only what they created.
func VisibleTickets(actor *domain.User, tickets []domain.Ticket) []domain.Ticket {
	visible := make([]domain.Ticket, 0, len(tickets))
	for i := range tickets {
		if permission.CanViewTicket(actor, &tickets[i]) {
			visible = append(visible, tickets[i])
		}
	}
	return visible
}

// ProjectTaskPool lists tasks with no assignee that are not completed.
func ProjectTaskPool(tickets []domain.Ticket) []TaskRef {
	return collectTasks(tickets, func(task domain.Task, _ domain.Ticket) bool {
		return task.AssignedToID == nil && !task.IsCompleted
	})
}

// ProjectMyTasks lists the user's incomplete assignments.
func ProjectMyTasks(userID string, tickets []domain.Ticket) []TaskRef {
	return collectTasks(tickets, func(task domain.Task, _ domain.Ticket) bool {
		return task.AssignedToID != nil && *task.AssignedToID == userID && !task.IsCompleted
	})
}

// ProjectOngoingTasks lists every claimed, incomplete task.
func ProjectOngoingTasks(tickets []domain.Ticket) []TaskRef {
	return collectTasks(tickets, func(task domain.Task, _ domain.Ticket) bool {
		return task.AssignedToID != nil && !task.IsCompleted
	})
}

// ProjectApprovals gathers RESOLVED tickets the actor created, and PENDING
// task submissions the actor may review. Review scope keys on the ticket's
// assignee for developers.
func ProjectApprovals(actor *domain.User, tickets []domain.Ticket) ApprovalsView {
	view := ApprovalsView{Tickets: []domain.Ticket{}, Tasks: []TaskRef{}}
	for i := range tickets {
		t := tickets[i]
		if t.Status == domain.TicketStatusResolved && t.CreatedByID == actor.ID {
			view.Tickets = append(view.Tickets, t)
		}
	}
	if !actor.IsStaff() {
		return view
	}
	view.Tasks = collectTasks(tickets, func(task domain.Task, t domain.Ticket) bool {
		if task.ApprovalStatus != domain.ApprovalPending {
			return false
		}
		if actor.Role == domain.RoleAdmin {
			return true
		}
		return t.AssignedToID != nil && *t.AssignedToID == actor.ID
	})
	return view
}

// ProjectTicketHistory lists finished tickets; customers see only their own.
func ProjectTicketHistory(actor *domain.User, tickets []domain.Ticket) []domain.Ticket {
	history := make([]domain.Ticket, 0, len(tickets))
	for i := range tickets {
		t := tickets[i]
		if t.Status != domain.TicketStatusResolved && t.Status != domain.TicketStatusClosed {
			continue
		}
		if !actor.IsStaff() && t.CreatedByID != actor.ID {
			continue
		}
		history = append(history, t)
	}
	return history
}

// ProjectTaskHistory lists completed tasks split into mine vs all.
func ProjectTaskHistory(userID string, tickets []domain.Ticket) TaskHistoryView {
	all := collectTasks(tickets, func(task domain.Task, _ domain.Ticket) bool {
		return task.IsCompleted
	})
	mine := make([]TaskRef, 0, len(all))
	for _, ref := range all {
		if ref.AssignedToID != nil && *ref.AssignedToID == userID {
			mine = append(mine, ref)
		}
	}
	return TaskHistoryView{Mine: mine, All: all}
}

// ProjectReports aggregates per staff member: tickets they drove to CLOSED
// (excluding cancellations and outright rejections, detected by their log
// markers) and tasks they completed. Staff with nothing delivered are
// omitted.
func ProjectReports(users []domain.User, tickets []domain.Ticket) []UserReport {
	reports := make([]UserReport, 0, len(users))
	for _, user := range users {
		if !user.IsStaff() {
			continue
		}
		report := UserReport{
			UserID:         user.ID,
			UserName:       user.Name,
			ClosedTickets:  []domain.Ticket{},
			CompletedTasks: []TaskRef{},
		}
		for i := range tickets {
			t := tickets[i]
			if t.Status == domain.TicketStatusClosed &&
				t.AssignedToID != nil && *t.AssignedToID == user.ID &&
				!hasLogMarker(t, domain.LogTicketCanceled) &&
				!hasLogMarker(t, domain.LogNewTicketRejected) {
				report.ClosedTickets = append(report.ClosedTickets, t)
			}
		}
		report.CompletedTasks = collectTasks(tickets, func(task domain.Task, _ domain.Ticket) bool {
			return task.IsCompleted && task.AssignedToID != nil && *task.AssignedToID == user.ID
		})
		if len(report.ClosedTickets) > 0 || len(report.CompletedTasks) > 0 {
			reports = append(reports, report)
		}
	}
	return reports
}

// collectTasks flattens active (non-deleted) tasks matching the predicate,
// keeping the snapshot's newest-ticket-first order.
func collectTasks(tickets []domain.Ticket, match func(domain.Task, domain.Ticket) bool) []TaskRef {
	refs := []TaskRef{}
	for i := range tickets {
		t := tickets[i]
		for _, task := range t.Tasks {
			if task.IsDeleted || !match(task, t) {
				continue
			}
			refs = append(refs, TaskRef{
				Task:               task,
				TicketID:           t.ID,
				TicketTitle:        t.Title,
				TicketAssignedToID: t.AssignedToID,
			})
		}
	}
	return refs
}

func hasLogMarker(t domain.Ticket, marker string) bool {
	for _, entry := range t.Logs {
		if strings.Contains(entry.Text, marker) {
			return true
		}
	}
	return false
}
