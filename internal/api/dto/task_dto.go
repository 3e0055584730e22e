package dto

import "time"

// CreateTaskRequest payload.
type CreateTaskRequest struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	AssignedToID *string    `json:"assigned_to_id"`
	DueDate      *time.Time `json:"due_date"`
}

// UpdateTaskRequest payload; omitted fields stay unchanged. An explicit
// null due date clears it.
type UpdateTaskRequest struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	AssignedToID *string    `json:"assigned_to_id"`
	DueDate      *time.Time `json:"due_date"`
	ClearDueDate bool       `json:"clear_due_date"`
}

// AssignTaskRequest payload.
type AssignTaskRequest struct {
	AssigneeID string `json:"assignee_id"`
}

// SubmitTaskRequest payload for sending a task to review.
type SubmitTaskRequest struct {
	Note        string              `json:"note"`
	Attachments []AttachmentRequest `json:"attachments"`
}
