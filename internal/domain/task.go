package domain

import "time"

// TaskApprovalStatus is the review state of a task submission.
type TaskApprovalStatus string

const (
	ApprovalNone     TaskApprovalStatus = "NONE"
	ApprovalPending  TaskApprovalStatus = "PENDING"
	ApprovalApproved TaskApprovalStatus = "APPROVED"
	ApprovalRejected TaskApprovalStatus = "REJECTED"
)

// Task is a sub-unit of work embedded in a ticket. Invariant:
// IsCompleted == true exactly when ApprovalStatus == APPROVED.
type Task struct {
	ID             string             `json:"id"`
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	IsCompleted    bool               `json:"is_completed"`
	ApprovalStatus TaskApprovalStatus `json:"approval_status"`
	AssignedToID   *string            `json:"assigned_to_id"`
	DueDate        *time.Time         `json:"due_date,omitempty"`
	Submission     *TaskSubmission    `json:"submission,omitempty"`
	IsDeleted      bool               `json:"is_deleted"`
}

// TaskSubmission exists only once the task has been submitted for review at
// least once. Re-submission overwrites it.
type TaskSubmission struct {
	Note        string       `json:"note"`
	Attachments []Attachment `json:"attachments,omitempty"`
	SubmittedAt time.Time    `json:"submitted_at"`
}
