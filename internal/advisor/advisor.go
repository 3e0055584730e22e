// Package advisor wraps the optional AI suggestion service. Advisors never
// fail: absence, timeouts and malformed responses all degrade to the fixed
// defaults, and the workflow engine treats every answer the same way.
package advisor

import (
	"context"

	"github.com/helixdesk/helixdesk/internal/domain"
)

// Suggestion is a recommended (priority, type) pair for a new ticket.
type Suggestion struct {
	Priority domain.TicketPriority `json:"priority"`
	Type     domain.TicketType     `json:"type"`
}

// Advisor produces task breakdowns and ticket classification hints.
type Advisor interface {
	// GenerateTasks returns 3-6 suggested task titles for the ticket.
	GenerateTasks(ctx context.Context, ticket *domain.Ticket) []string
	// SuggestPriorityType classifies a draft ticket.
	SuggestPriorityType(ctx context.Context, title, description string) Suggestion
}

// DefaultTaskTitles is the fallback breakdown used when no remote advisor is
// configured or the call fails.
var DefaultTaskTitles = []string{
	"Review requirements",
	"Investigate codebase",
	"Implement fix/feature",
	"Test changes",
}

// DefaultSuggestion is the fallback classification.
var DefaultSuggestion = Suggestion{
	Priority: domain.TicketPriorityMedium,
	Type:     domain.TicketTypeSelfInitiation,
}

// Static always answers with the fixed defaults.
type Static struct{}

// NewStatic returns the default-only advisor.
func NewStatic() Static { return Static{} }

func (Static) GenerateTasks(context.Context, *domain.Ticket) []string {
	return append([]string(nil), DefaultTaskTitles...)
}

func (Static) SuggestPriorityType(context.Context, string, string) Suggestion {
	return DefaultSuggestion
}

// Noop answers with nothing at all; the engine must behave identically.
type Noop struct{}

func (Noop) GenerateTasks(context.Context, *domain.Ticket) []string { return nil }

func (Noop) SuggestPriorityType(context.Context, string, string) Suggestion {
	return DefaultSuggestion
}
