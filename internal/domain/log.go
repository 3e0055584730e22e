package domain

import "time"

// LogEntry is an append-only workflow audit record. The acting user's name is
// denormalized so the entry survives renames and deletions. Insertion order is
// causal order; entries are never edited or reordered.
type LogEntry struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
}

// Log texts checked by the reports projection.
const (
	LogTicketCanceled    = "Ticket canceled"
	LogNewTicketRejected = "New ticket rejected"
)
