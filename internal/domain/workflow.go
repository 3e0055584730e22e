package domain

var allowedTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusOpen:       {TicketStatusInProgress, TicketStatusClosed},
	TicketStatusInProgress: {TicketStatusResolved, TicketStatusClosed},
	TicketStatusResolved:   {TicketStatusInProgress, TicketStatusClosed},
	TicketStatusClosed:     {},
}

// IsValidTransition reports whether a ticket may move from current to next.
// CLOSED is terminal: no transition leaves it.
func IsValidTransition(current, next TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ActiveTasks returns the ticket's tasks that are not soft-deleted.
func (t *Ticket) ActiveTasks() []Task {
	active := make([]Task, 0, len(t.Tasks))
	for _, task := range t.Tasks {
		if !task.IsDeleted {
			active = append(active, task)
		}
	}
	return active
}

// AllTasksApproved reports whether every active task is completed. A ticket
// with zero active tasks counts as approved, so task-less tickets stay
// eligible for resolution.
func (t *Ticket) AllTasksApproved() bool {
	for _, task := range t.Tasks {
		if !task.IsDeleted && !task.IsCompleted {
			return false
		}
	}
	return true
}

// Progress returns the percentage of active tasks completed, 0 when the
// ticket has no active tasks.
func (t *Ticket) Progress() int {
	active := 0
	completed := 0
	for _, task := range t.Tasks {
		if task.IsDeleted {
			continue
		}
		active++
		if task.IsCompleted {
			completed++
		}
	}
	if active == 0 {
		return 0
	}
	return completed * 100 / active
}

// TaskIndex returns the position of the task with the given id, or -1.
// Soft-deleted tasks are still addressable; callers decide whether that
// matters.
func (t *Ticket) TaskIndex(taskID string) int {
	for i := range t.Tasks {
		if t.Tasks[i].ID == taskID {
			return i
		}
	}
	return -1
}

// AppendLog attaches an audit entry to the ticket.
func (t *Ticket) AppendLog(entry LogEntry) {
	t.Logs = append(t.Logs, entry)
}
