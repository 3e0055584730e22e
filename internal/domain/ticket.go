package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "LOW"
	TicketPriorityMedium   TicketPriority = "MEDIUM"
	TicketPriorityHigh     TicketPriority = "HIGH"
	TicketPriorityCritical TicketPriority = "CRITICAL"
)

// TicketType classifies what kind of work a ticket represents.
type TicketType string

const (
	TicketTypeBugIssue       TicketType = "BUG_ISSUE"
	TicketTypeFeatureRequest TicketType = "FEATURE_REQUEST"
	TicketTypeSelfInitiation TicketType = "SELF_INITIATION"
)

// Ticket is the aggregate for a reported issue or request. Tasks, logs and
// attachments are owned inline; the whole document is always written as one
// unit.
type Ticket struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Type          TicketType     `json:"type"`
	Priority      TicketPriority `json:"priority"`
	Status        TicketStatus   `json:"status"`
	CreatedByID   string         `json:"created_by_id"`
	CreatedByName string         `json:"created_by_name"`
	AssignedToID  *string        `json:"assigned_to_id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	Tasks         []Task         `json:"tasks"`
	Logs          []LogEntry     `json:"logs"`
	Attachments   []Attachment   `json:"attachments"`
	Resolution    *Resolution    `json:"resolution,omitempty"`
	Rejection     *Rejection     `json:"rejection,omitempty"`
}

// Resolution exists only once a ticket has reached RESOLVED at least once.
type Resolution struct {
	Note        string       `json:"note"`
	Attachments []Attachment `json:"attachments,omitempty"`
	ResolvedAt  time.Time    `json:"resolved_at"`
}

// Rejection exists only after a rejection event (either a brand-new ticket
// rejected by an admin or a resolution rejected by the creator).
type Rejection struct {
	Reason      string       `json:"reason"`
	Attachments []Attachment `json:"attachments,omitempty"`
	RejectedAt  time.Time    `json:"rejected_at"`
}
