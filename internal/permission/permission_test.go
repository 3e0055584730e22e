package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/helixdesk/helixdesk/internal/domain"
)

var (
	admin    = &domain.User{ID: "admin-1", Role: domain.RoleAdmin}
	dev      = &domain.User{ID: "dev-1", Role: domain.RoleDeveloper}
	otherDev = &domain.User{ID: "dev-2", Role: domain.RoleDeveloper}
	customer = &domain.User{ID: "cust-1", Role: domain.RoleCustomer}
)

func openTicket(createdBy string) *domain.Ticket {
	return &domain.Ticket{ID: "t-1", Status: domain.TicketStatusOpen, CreatedByID: createdBy}
}

func TestViewScope(t *testing.T) {
	ticket := openTicket(customer.ID)

	assert.True(t, CanViewTicket(admin, ticket))
	assert.True(t, CanViewTicket(dev, ticket))
	assert.True(t, CanViewTicket(customer, ticket))
	assert.False(t, CanViewTicket(&domain.User{ID: "cust-2", Role: domain.RoleCustomer}, ticket))
}

func TestClaimRequiresOpenAndUnassigned(t *testing.T) {
	ticket := openTicket(customer.ID)
	assert.True(t, ForTicket(dev, ticket).Claim)
	assert.True(t, ForTicket(admin, ticket).Claim)
	assert.False(t, ForTicket(customer, ticket).Claim)

	ticket.AssignedToID = &dev.ID
	assert.False(t, ForTicket(otherDev, ticket).Claim)

	unassigned := openTicket(customer.ID)
	unassigned.Status = domain.TicketStatusInProgress
	assert.False(t, ForTicket(dev, unassigned).Claim)
}

func TestCreatorExclusiveJudgment(t *testing.T) {
	ticket := openTicket(customer.ID)
	ticket.Status = domain.TicketStatusResolved
	ticket.AssignedToID = &dev.ID

	// Only the creator judges the outcome, regardless of role.
	assert.True(t, ForTicket(customer, ticket).AcceptResolution)
	assert.True(t, ForTicket(customer, ticket).RejectResolution)
	assert.False(t, ForTicket(admin, ticket).AcceptResolution)
	assert.False(t, ForTicket(admin, ticket).RejectResolution)
	assert.False(t, ForTicket(dev, ticket).AcceptResolution)

	ticket.Status = domain.TicketStatusInProgress
	assert.False(t, ForTicket(customer, ticket).AcceptResolution)
}

func TestCancelScope(t *testing.T) {
	ticket := openTicket(customer.ID)
	assert.True(t, ForTicket(customer, ticket).Cancel)
	assert.False(t, ForTicket(admin, ticket).Cancel)

	ticket.Status = domain.TicketStatusResolved
	assert.True(t, ForTicket(customer, ticket).Cancel)

	ticket.Status = domain.TicketStatusClosed
	assert.False(t, ForTicket(customer, ticket).Cancel)
}

func TestRejectNewAdminOnly(t *testing.T) {
	ticket := openTicket(customer.ID)
	assert.True(t, ForTicket(admin, ticket).RejectNew)
	assert.False(t, ForTicket(dev, ticket).RejectNew)

	ticket.Status = domain.TicketStatusInProgress
	assert.False(t, ForTicket(admin, ticket).RejectNew)
}

func TestManageTasksKeysOnTicketAssignee(t *testing.T) {
	ticket := openTicket(customer.ID)
	ticket.Status = domain.TicketStatusInProgress
	ticket.AssignedToID = &dev.ID

	assert.True(t, ForTicket(admin, ticket).ManageTasks)
	assert.True(t, ForTicket(dev, ticket).ManageTasks)
	assert.False(t, ForTicket(otherDev, ticket).ManageTasks)
	assert.False(t, ForTicket(customer, ticket).ManageTasks)
}

func TestSubmitResolutionRequiresCompletedTasks(t *testing.T) {
	ticket := openTicket(customer.ID)
	ticket.Status = domain.TicketStatusInProgress
	ticket.AssignedToID = &dev.ID
	ticket.Tasks = []domain.Task{{ID: "task-1"}}

	assert.False(t, ForTicket(dev, ticket).SubmitResolution)

	ticket.Tasks[0].IsCompleted = true
	assert.True(t, ForTicket(dev, ticket).SubmitResolution)
	assert.True(t, ForTicket(admin, ticket).SubmitResolution)
	assert.False(t, ForTicket(otherDev, ticket).SubmitResolution)
}

func TestSubmitResolutionWithNoTasks(t *testing.T) {
	ticket := openTicket(customer.ID)
	ticket.Status = domain.TicketStatusInProgress
	ticket.AssignedToID = &dev.ID

	assert.True(t, ForTicket(dev, ticket).SubmitResolution)
}

func TestTaskReviewKeysOnTicketAssignee(t *testing.T) {
	ticket := openTicket(customer.ID)
	ticket.Status = domain.TicketStatusInProgress
	ticket.AssignedToID = &dev.ID
	task := &domain.Task{ID: "task-1", AssignedToID: &otherDev.ID, ApprovalStatus: domain.ApprovalPending}

	// The ticket's assignee reviews, even when the task belongs to someone
	// else. The task's own assignee does not.
	assert.True(t, ForTask(dev, ticket, task).Review)
	assert.True(t, ForTask(admin, ticket, task).Review)
	assert.False(t, ForTask(otherDev, ticket, task).Review)
	assert.False(t, ForTask(customer, ticket, task).Review)
}

func TestTaskSubmitScope(t *testing.T) {
	ticket := openTicket(customer.ID)
	ticket.AssignedToID = &dev.ID
	task := &domain.Task{ID: "task-1", AssignedToID: &otherDev.ID}

	assert.True(t, ForTask(otherDev, ticket, task).Submit)
	assert.True(t, ForTask(admin, ticket, task).Submit)
	assert.False(t, ForTask(dev, ticket, task).Submit)

	task.ApprovalStatus = domain.ApprovalPending
	assert.False(t, ForTask(otherDev, ticket, task).Submit)

	task.ApprovalStatus = domain.ApprovalRejected
	assert.True(t, ForTask(otherDev, ticket, task).Submit)

	task.IsCompleted = true
	task.ApprovalStatus = domain.ApprovalApproved
	assert.False(t, ForTask(otherDev, ticket, task).Submit)
}

func TestDeletedTaskHasNoCapabilities(t *testing.T) {
	ticket := openTicket(customer.ID)
	ticket.AssignedToID = &dev.ID
	task := &domain.Task{ID: "task-1", IsDeleted: true}

	assert.Equal(t, TaskSet{}, ForTask(admin, ticket, task))
}

func TestNilActorOrTicket(t *testing.T) {
	assert.Equal(t, TicketSet{}, ForTicket(nil, openTicket("x")))
	assert.Equal(t, TicketSet{}, ForTicket(admin, nil))
}
