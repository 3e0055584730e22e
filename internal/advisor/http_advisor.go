package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/helixdesk/helixdesk/internal/config"
	"github.com/helixdesk/helixdesk/internal/domain"
)

// HTTPAdvisor posts ticket context to a remote suggestion endpoint. Any
// failure falls back to the static defaults.
type HTTPAdvisor struct {
	url    string
	apiKey string
	client *http.Client
	logger *zap.Logger
}

// New returns the configured advisor: HTTP-backed when a URL is set,
// otherwise the static defaults.
func New(cfg config.AdvisorConfig, logger *zap.Logger) Advisor {
	if cfg.URL == "" {
		return NewStatic()
	}
	return &HTTPAdvisor{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: cfg.Timeout()},
		logger: logger,
	}
}

type generateTasksRequest struct {
	Action      string `json:"action"`
	Title       string `json:"title"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

type generateTasksResponse struct {
	Tasks []string `json:"tasks"`
}

type suggestResponse struct {
	Priority string `json:"priority"`
	Type     string `json:"type"`
}

func (a *HTTPAdvisor) GenerateTasks(ctx context.Context, ticket *domain.Ticket) []string {
	req := generateTasksRequest{
		Action:      "generate_tasks",
		Title:       ticket.Title,
		Type:        string(ticket.Type),
		Description: ticket.Description,
	}
	var resp generateTasksResponse
	if err := a.post(ctx, req, &resp); err != nil {
		a.logger.Warn("task generation degraded to defaults", zap.Error(err))
		return append([]string(nil), DefaultTaskTitles...)
	}
	if len(resp.Tasks) == 0 {
		return nil
	}
	// 3-6 titles per the advisory contract; trim runaway responses.
	if len(resp.Tasks) > 6 {
		resp.Tasks = resp.Tasks[:6]
	}
	return resp.Tasks
}

func (a *HTTPAdvisor) SuggestPriorityType(ctx context.Context, title, description string) Suggestion {
	req := generateTasksRequest{
		Action:      "suggest_priority_type",
		Title:       title,
		Description: description,
	}
	var resp suggestResponse
	if err := a.post(ctx, req, &resp); err != nil {
		a.logger.Warn("classification degraded to defaults", zap.Error(err))
		return DefaultSuggestion
	}
	suggestion := Suggestion{
		Priority: domain.TicketPriority(resp.Priority),
		Type:     domain.TicketType(resp.Type),
	}
	if !validPriority(suggestion.Priority) {
		suggestion.Priority = DefaultSuggestion.Priority
	}
	if !validType(suggestion.Type) {
		suggestion.Type = DefaultSuggestion.Type
	}
	return suggestion
}

func (a *HTTPAdvisor) post(ctx context.Context, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if a.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.apiKey)
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("advisor returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func validPriority(p domain.TicketPriority) bool {
	switch p {
	case domain.TicketPriorityLow, domain.TicketPriorityMedium, domain.TicketPriorityHigh, domain.TicketPriorityCritical:
		return true
	}
	return false
}

func validType(t domain.TicketType) bool {
	switch t {
	case domain.TicketTypeBugIssue, domain.TicketTypeFeatureRequest, domain.TicketTypeSelfInitiation:
		return true
	}
	return false
}
