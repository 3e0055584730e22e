package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixdesk/helixdesk/internal/domain"
)

func viewTickets() []domain.Ticket {
	now := time.Now()
	return []domain.Ticket{
		{
			ID:          "t-open",
			Title:       "Open ticket",
			Status:      domain.TicketStatusOpen,
			CreatedByID: testCustomer.ID,
			CreatedAt:   now,
			Tasks: []domain.Task{
				{ID: "task-free"},
				{ID: "task-mine", AssignedToID: &testDev.ID},
				{ID: "task-gone", IsDeleted: true},
			},
		},
		{
			ID:           "t-resolved",
			Title:        "Resolved ticket",
			Status:       domain.TicketStatusResolved,
			CreatedByID:  testCustomer.ID,
			AssignedToID: &testDev.ID,
			CreatedAt:    now.Add(-time.Hour),
			Tasks: []domain.Task{
				{ID: "task-pending", AssignedToID: &testOtherDev.ID, ApprovalStatus: domain.ApprovalPending},
				{ID: "task-done", AssignedToID: &testDev.ID, IsCompleted: true, ApprovalStatus: domain.ApprovalApproved},
			},
		},
		{
			ID:           "t-closed",
			Title:        "Closed ticket",
			Status:       domain.TicketStatusClosed,
			CreatedByID:  "cust-2",
			AssignedToID: &testDev.ID,
			CreatedAt:    now.Add(-2 * time.Hour),
			Logs: []domain.LogEntry{
				{ID: "l1", Text: "Ticket created"},
				{ID: "l2", Text: "Ticket accepted and closed"},
			},
		},
		{
			ID:           "t-canceled",
			Title:        "Canceled ticket",
			Status:       domain.TicketStatusClosed,
			CreatedByID:  "cust-2",
			AssignedToID: &testDev.ID,
			CreatedAt:    now.Add(-3 * time.Hour),
			Logs: []domain.LogEntry{
				{ID: "l1", Text: "Ticket created"},
				{ID: "l2", Text: "Ticket canceled"},
			},
		},
	}
}

func TestVisibleTickets(t *testing.T) {
	tickets := viewTickets()

	assert.Len(t, VisibleTickets(testAdmin, tickets), 4)
	assert.Len(t, VisibleTickets(testDev, tickets), 4)

	mine := VisibleTickets(testCustomer, tickets)
	require.Len(t, mine, 2)
	for _, ticket := range mine {
		assert.Equal(t, testCustomer.ID, ticket.CreatedByID)
	}
}

func TestProjectTaskPool(t *testing.T) {
	pool := ProjectTaskPool(viewTickets())
	require.Len(t, pool, 1)
	assert.Equal(t, "task-free", pool[0].ID)
	assert.Equal(t, "t-open", pool[0].TicketID)
	assert.Equal(t, "Open ticket", pool[0].TicketTitle)
}

func TestProjectMyTasks(t *testing.T) {
	mine := ProjectMyTasks(testDev.ID, viewTickets())
	require.Len(t, mine, 1)
	assert.Equal(t, "task-mine", mine[0].ID)
}

func TestProjectOngoingTasks(t *testing.T) {
	ongoing := ProjectOngoingTasks(viewTickets())
	require.Len(t, ongoing, 2)
	assert.Equal(t, "task-mine", ongoing[0].ID)
	assert.Equal(t, "task-pending", ongoing[1].ID)
}

func TestProjectApprovals(t *testing.T) {
	tickets := viewTickets()

	// The creator sees their resolved ticket awaiting judgment.
	custView := ProjectApprovals(testCustomer, tickets)
	require.Len(t, custView.Tickets, 1)
	assert.Equal(t, "t-resolved", custView.Tickets[0].ID)
	assert.Empty(t, custView.Tasks)

	// The ticket's assignee reviews pending task submissions under it.
	devView := ProjectApprovals(testDev, tickets)
	assert.Empty(t, devView.Tickets)
	require.Len(t, devView.Tasks, 1)
	assert.Equal(t, "task-pending", devView.Tasks[0].ID)

	// A developer not assigned to the ticket reviews nothing.
	otherView := ProjectApprovals(testOtherDev, tickets)
	assert.Empty(t, otherView.Tasks)

	// Admins review everything pending.
	adminView := ProjectApprovals(testAdmin, tickets)
	require.Len(t, adminView.Tasks, 1)
}

func TestProjectTicketHistory(t *testing.T) {
	tickets := viewTickets()

	staffHistory := ProjectTicketHistory(testDev, tickets)
	assert.Len(t, staffHistory, 3)

	custHistory := ProjectTicketHistory(testCustomer, tickets)
	require.Len(t, custHistory, 1)
	assert.Equal(t, "t-resolved", custHistory[0].ID)
}

func TestProjectTaskHistory(t *testing.T) {
	view := ProjectTaskHistory(testDev.ID, viewTickets())
	require.Len(t, view.All, 1)
	assert.Equal(t, "task-done", view.All[0].ID)
	require.Len(t, view.Mine, 1)
	assert.Equal(t, "task-done", view.Mine[0].ID)

	otherView := ProjectTaskHistory(testOtherDev.ID, viewTickets())
	assert.Len(t, otherView.All, 1)
	assert.Empty(t, otherView.Mine)
}

func TestProjectReports(t *testing.T) {
	users := []domain.User{*testAdmin, *testDev, *testOtherDev, *testCustomer}
	reports := ProjectReports(users, viewTickets())

	// Only testDev delivered anything; canceled tickets do not count.
	require.Len(t, reports, 1)
	report := reports[0]
	assert.Equal(t, testDev.ID, report.UserID)
	require.Len(t, report.ClosedTickets, 1)
	assert.Equal(t, "t-closed", report.ClosedTickets[0].ID)
	require.Len(t, report.CompletedTasks, 1)
	assert.Equal(t, "task-done", report.CompletedTasks[0].ID)
}

func TestViewServiceRoleGuards(t *testing.T) {
	svc := NewViewService(newFixture().snapshot)

	_, err := svc.TaskPool(testCustomer)
	assertCode(t, err, "FORBIDDEN")
	_, err = svc.MyTasks(testCustomer)
	assertCode(t, err, "FORBIDDEN")
	_, err = svc.OngoingTasks(testDev)
	assertCode(t, err, "FORBIDDEN")
	_, err = svc.HistoryTasks(testCustomer)
	assertCode(t, err, "FORBIDDEN")
	_, err = svc.Reports(testCustomer)
	assertCode(t, err, "FORBIDDEN")
}
