package dto

import (
	"github.com/helixdesk/helixdesk/internal/domain"
)

// CreateTicketRequest payload. Priority and type may be omitted; the
// server falls back to its defaults.
type CreateTicketRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Type        domain.TicketType     `json:"type"`
	Priority    domain.TicketPriority `json:"priority"`
	Attachments []AttachmentRequest   `json:"attachments"`
}

// AssignRequest payload.
type AssignRequest struct {
	AssigneeID string `json:"assignee_id"`
}

// ReasonRequest carries a rejection reason with optional evidence.
type ReasonRequest struct {
	Reason      string              `json:"reason"`
	Attachments []AttachmentRequest `json:"attachments"`
}

// ResolutionRequest payload for submitting a resolution.
type ResolutionRequest struct {
	Note        string              `json:"note"`
	Attachments []AttachmentRequest `json:"attachments"`
}

// SuggestRequest payload for draft classification.
type SuggestRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// AttachmentRequest describes uploaded file metadata.
type AttachmentRequest struct {
	FileName   string `json:"file_name"`
	MimeType   string `json:"mime_type"`
	StorageKey string `json:"storage_key"`
}

// AttachmentsRequest payload for appending files to a ticket.
type AttachmentsRequest struct {
	Attachments []AttachmentRequest `json:"attachments"`
}
