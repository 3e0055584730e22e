// Package permission computes, for a given actor and ticket (and optionally a
// task), which workflow operations are legal. All functions are pure; the
// workflow engine consults them before applying any mutation, and the UI uses
// the same answers to decide which controls to show.
package permission

import "github.com/helixdesk/helixdesk/internal/domain"

// TicketSet is the capability set for ticket-level operations.
type TicketSet struct {
	View             bool
	Claim            bool
	Reassign         bool
	RejectNew        bool
	ManageTasks      bool
	SubmitResolution bool
	AcceptResolution bool
	RejectResolution bool
	Cancel           bool
	Delete           bool
}

// TaskSet is the capability set for operations on one embedded task.
type TaskSet struct {
	Claim  bool
	Submit bool
	Review bool
	Toggle bool
}

// ForTicket computes the actor's ticket-level capabilities.
func ForTicket(actor *domain.User, ticket *domain.Ticket) TicketSet {
	if actor == nil || ticket == nil {
		return TicketSet{}
	}

	isAdmin := actor.Role == domain.RoleAdmin
	isDev := actor.Role == domain.RoleDeveloper
	isCreator := ticket.CreatedByID == actor.ID
	isAssignee := ticket.AssignedToID != nil && *ticket.AssignedToID == actor.ID

	isOpen := ticket.Status == domain.TicketStatusOpen
	isInProgress := ticket.Status == domain.TicketStatusInProgress
	isResolved := ticket.Status == domain.TicketStatusResolved
	isClosed := ticket.Status == domain.TicketStatusClosed

	set := TicketSet{
		View:        isAdmin || isDev || isCreator,
		Claim:       isOpen && ticket.AssignedToID == nil && (isAdmin || isDev),
		Reassign:    isAdmin && (isOpen || isInProgress),
		RejectNew:   isAdmin && isOpen,
		ManageTasks: isAdmin || (isDev && isAssignee),
		// The creator, and only the creator, judges the outcome. Not the
		// assignee, not an admin.
		AcceptResolution: isCreator && isResolved,
		RejectResolution: isCreator && isResolved,
		Cancel:           isCreator && !isClosed,
		Delete:           isAdmin,
	}
	set.SubmitResolution = (isAdmin || isAssignee) && isInProgress && ticket.AllTasksApproved()
	return set
}

// ForTask computes the actor's capabilities on one task of a ticket. Review
// rights key on the ticket's assignee, not the task's: the developer driving
// the ticket reviews every submission under it.
func ForTask(actor *domain.User, ticket *domain.Ticket, task *domain.Task) TaskSet {
	if actor == nil || ticket == nil || task == nil || task.IsDeleted {
		return TaskSet{}
	}

	isAdmin := actor.Role == domain.RoleAdmin
	isDev := actor.Role == domain.RoleDeveloper
	isTaskAssignee := task.AssignedToID != nil && *task.AssignedToID == actor.ID
	isTicketAssignee := ticket.AssignedToID != nil && *ticket.AssignedToID == actor.ID

	return TaskSet{
		Claim:  task.AssignedToID == nil && !task.IsCompleted && (isAdmin || isDev),
		Submit: (isTaskAssignee || isAdmin) && !task.IsCompleted && task.ApprovalStatus != domain.ApprovalPending,
		Review: isAdmin || (isDev && isTicketAssignee),
		Toggle: isAdmin || (isDev && isTicketAssignee),
	}
}

// CanViewTicket is a convenience wrapper used by list projections.
func CanViewTicket(actor *domain.User, ticket *domain.Ticket) bool {
	return ForTicket(actor, ticket).View
}
