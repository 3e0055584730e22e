package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixdesk/helixdesk/internal/domain"
)

// inProgressTicket creates a ticket, has testDev claim it, and adds one task.
func inProgressTicket(t *testing.T, f *fixture) (string, string) {
	t.Helper()
	ctx := context.Background()
	ticket := createTicket(t, f, testCustomer)
	_, err := f.workflow.Claim(ctx, testDev, ticket.ID)
	require.NoError(t, err)
	withTask, err := f.tasks.Add(ctx, testDev, ticket.ID, TaskCreateInput{Title: "Investigate"})
	require.NoError(t, err)
	return ticket.ID, withTask.Tasks[0].ID
}

func taskByID(t *testing.T, f *fixture, ticketID, taskID string) domain.Task {
	t.Helper()
	ticket, err := f.tickets.GetByID(context.Background(), ticketID)
	require.NoError(t, err)
	idx := ticket.TaskIndex(taskID)
	require.GreaterOrEqual(t, idx, 0)
	return ticket.Tasks[idx]
}

func TestAddTask(t *testing.T) {
	f := newFixture(allTestUsers()...)
	ctx := context.Background()
	ticket := createTicket(t, f, testCustomer)
	_, err := f.workflow.Claim(ctx, testDev, ticket.ID)
	require.NoError(t, err)

	due := time.Now().Add(48 * time.Hour)
	updated, err := f.tasks.Add(ctx, testDev, ticket.ID, TaskCreateInput{
		Title:        "Write regression test",
		Description:  "Cover the mobile checkout path",
		AssignedToID: &testOtherDev.ID,
		DueDate:      &due,
	})
	require.NoError(t, err)
	require.Len(t, updated.Tasks, 1)
	task := updated.Tasks[0]
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, domain.ApprovalNone, task.ApprovalStatus)
	assert.False(t, task.IsCompleted)
	assert.Equal(t, testOtherDev.ID, *task.AssignedToID)

	// Another developer has no task management rights here.
	_, err = f.tasks.Add(ctx, testOtherDev, ticket.ID, TaskCreateInput{Title: "Sneak in"})
	assertCode(t, err, "FORBIDDEN")

	_, err = f.tasks.Add(ctx, testDev, ticket.ID, TaskCreateInput{Title: " "})
	assertCode(t, err, "VALIDATION_FAILED")

	_, err = f.tasks.Add(ctx, testDev, ticket.ID, TaskCreateInput{Title: "x", AssignedToID: &testCustomer.ID})
	assertCode(t, err, "VALIDATION_FAILED")
}

func TestTaskSubmitApproveInvariant(t *testing.T) {
	f := newFixture(allTestUsers()...)
	ctx := context.Background()
	ticketID, taskID := inProgressTicket(t, f)

	_, err := f.tasks.Assign(ctx, testAdmin, ticketID, taskID, testOtherDev.ID)
	require.NoError(t, err)

	// Not pending yet, nothing to review.
	_, err = f.tasks.Approve(ctx, testDev, ticketID, taskID)
	assertCode(t, err, "CONFLICT")

	_, err = f.tasks.Submit(ctx, testOtherDev, ticketID, taskID, "see branch fix/checkout", nil)
	require.NoError(t, err)
	task := taskByID(t, f, ticketID, taskID)
	assert.Equal(t, domain.ApprovalPending, task.ApprovalStatus)
	assert.False(t, task.IsCompleted)
	require.NotNil(t, task.Submission)
	assert.Equal(t, "see branch fix/checkout", task.Submission.Note)

	// Double submit while pending is a conflict.
	_, err = f.tasks.Submit(ctx, testOtherDev, ticketID, taskID, "again", nil)
	assertCode(t, err, "CONFLICT")

	// The task's own assignee cannot review; the ticket's assignee can.
	_, err = f.tasks.Approve(ctx, testOtherDev, ticketID, taskID)
	assertCode(t, err, "FORBIDDEN")

	_, err = f.tasks.Approve(ctx, testDev, ticketID, taskID)
	require.NoError(t, err)
	task = taskByID(t, f, ticketID, taskID)
	assert.Equal(t, domain.ApprovalApproved, task.ApprovalStatus)
	assert.True(t, task.IsCompleted)

	// Completed and approved, no further submission.
	_, err = f.tasks.Submit(ctx, testOtherDev, ticketID, taskID, "more", nil)
	assertCode(t, err, "CONFLICT")
}

func TestTaskRejectAndResubmit(t *testing.T) {
	f := newFixture(allTestUsers()...)
	ctx := context.Background()
	ticketID, taskID := inProgressTicket(t, f)

	_, err := f.tasks.Claim(ctx, testOtherDev, ticketID, taskID)
	require.NoError(t, err)
	_, err = f.tasks.Submit(ctx, testOtherDev, ticketID, taskID, "first try", nil)
	require.NoError(t, err)

	_, err = f.tasks.Reject(ctx, testDev, ticketID, taskID)
	require.NoError(t, err)
	task := taskByID(t, f, ticketID, taskID)
	assert.Equal(t, domain.ApprovalRejected, task.ApprovalStatus)
	assert.False(t, task.IsCompleted)

	// Resubmission overwrites the previous submission.
	_, err = f.tasks.Submit(ctx, testOtherDev, ticketID, taskID, "second try", nil)
	require.NoError(t, err)
	task = taskByID(t, f, ticketID, taskID)
	assert.Equal(t, domain.ApprovalPending, task.ApprovalStatus)
	assert.Equal(t, "second try", task.Submission.Note)
}

func TestTaskClaim(t *testing.T) {
	f := newFixture(allTestUsers()...)
	ctx := context.Background()
	ticketID, taskID := inProgressTicket(t, f)

	_, err := f.tasks.Claim(ctx, testCustomer, ticketID, taskID)
	assertCode(t, err, "FORBIDDEN")

	_, err = f.tasks.Claim(ctx, testOtherDev, ticketID, taskID)
	require.NoError(t, err)
	task := taskByID(t, f, ticketID, taskID)
	assert.Equal(t, testOtherDev.ID, *task.AssignedToID)

	// Already claimed.
	_, err = f.tasks.Claim(ctx, testDev, ticketID, taskID)
	assertCode(t, err, "CONFLICT")
}

func TestTaskToggleOverride(t *testing.T) {
	f := newFixture(allTestUsers()...)
	ctx := context.Background()
	ticketID, taskID := inProgressTicket(t, f)

	// Toggle on: approved and completed without ever being pending.
	_, err := f.tasks.Toggle(ctx, testDev, ticketID, taskID)
	require.NoError(t, err)
	task := taskByID(t, f, ticketID, taskID)
	assert.True(t, task.IsCompleted)
	assert.Equal(t, domain.ApprovalApproved, task.ApprovalStatus)

	// Toggle off: back to not completed, approval reset.
	_, err = f.tasks.Toggle(ctx, testAdmin, ticketID, taskID)
	require.NoError(t, err)
	task = taskByID(t, f, ticketID, taskID)
	assert.False(t, task.IsCompleted)
	assert.Equal(t, domain.ApprovalNone, task.ApprovalStatus)

	_, err = f.tasks.Toggle(ctx, testOtherDev, ticketID, taskID)
	assertCode(t, err, "FORBIDDEN")
}

func TestTaskSoftDeleteUnblocksResolution(t *testing.T) {
	f := newFixture(allTestUsers()...)
	ctx := context.Background()
	ticketID, taskID := inProgressTicket(t, f)

	_, err := f.workflow.SubmitResolution(ctx, testDev, ticketID, "done", nil)
	assertCode(t, err, "CONFLICT")

	deleted, err := f.tasks.Delete(ctx, testDev, ticketID, taskID)
	require.NoError(t, err)
	idx := deleted.TaskIndex(taskID)
	require.GreaterOrEqual(t, idx, 0)
	assert.True(t, deleted.Tasks[idx].IsDeleted)

	// A deleted task no longer answers to task operations.
	_, err = f.tasks.Toggle(ctx, testDev, ticketID, taskID)
	assertCode(t, err, "NOT_FOUND")

	_, err = f.workflow.SubmitResolution(ctx, testDev, ticketID, "done", nil)
	require.NoError(t, err)
}

func TestTaskUpdate(t *testing.T) {
	f := newFixture(allTestUsers()...)
	ctx := context.Background()
	ticketID, taskID := inProgressTicket(t, f)

	title := "Investigate deeper"
	desc := "Check the payment gateway logs"
	updated, err := f.tasks.Update(ctx, testDev, ticketID, taskID, TaskUpdateInput{
		Title:       &title,
		Description: &desc,
	})
	require.NoError(t, err)
	idx := updated.TaskIndex(taskID)
	assert.Equal(t, title, updated.Tasks[idx].Title)
	assert.Equal(t, desc, updated.Tasks[idx].Description)

	due := time.Now().Add(24 * time.Hour)
	_, err = f.tasks.Update(ctx, testDev, ticketID, taskID, TaskUpdateInput{DueDate: &due})
	require.NoError(t, err)
	assert.NotNil(t, taskByID(t, f, ticketID, taskID).DueDate)

	_, err = f.tasks.Update(ctx, testDev, ticketID, taskID, TaskUpdateInput{ClearDueDate: true})
	require.NoError(t, err)
	assert.Nil(t, taskByID(t, f, ticketID, taskID).DueDate)

	empty := "  "
	_, err = f.tasks.Update(ctx, testDev, ticketID, taskID, TaskUpdateInput{Title: &empty})
	assertCode(t, err, "VALIDATION_FAILED")

	_, err = f.tasks.Update(ctx, testOtherDev, ticketID, taskID, TaskUpdateInput{Title: &title})
	assertCode(t, err, "FORBIDDEN")
}

func TestTaskAssignAdminOnly(t *testing.T) {
	f := newFixture(allTestUsers()...)
	ctx := context.Background()
	ticketID, taskID := inProgressTicket(t, f)

	_, err := f.tasks.Assign(ctx, testDev, ticketID, taskID, testOtherDev.ID)
	assertCode(t, err, "FORBIDDEN")

	_, err = f.tasks.Assign(ctx, testAdmin, ticketID, taskID, testCustomer.ID)
	assertCode(t, err, "VALIDATION_FAILED")

	_, err = f.tasks.Assign(ctx, testAdmin, ticketID, taskID, testOtherDev.ID)
	require.NoError(t, err)

	// Admin reassignment works even after a claim.
	_, err = f.tasks.Assign(ctx, testAdmin, ticketID, taskID, testDev.ID)
	require.NoError(t, err)
	assert.Equal(t, testDev.ID, *taskByID(t, f, ticketID, taskID).AssignedToID)
}
