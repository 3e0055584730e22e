package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helixdesk/helixdesk/internal/domain"
)

// TicketRepository encapsulates whole-document ticket persistence. Update
// rewrites every mutable column in one statement; embedded tasks, logs and
// attachments are always replaced as complete arrays, never patched.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListAll(ctx context.Context) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	docs, err := marshalDocs(ticket)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO tickets (title, description, type, priority, status, created_by_id,
                             created_by_name, assigned_to_id, tasks, logs, attachments,
                             resolution, rejection)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Type,
		ticket.Priority,
		ticket.Status,
		ticket.CreatedByID,
		ticket.CreatedByName,
		ticket.AssignedToID,
		docs.tasks,
		docs.logs,
		docs.attachments,
		docs.resolution,
		docs.rejection,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	docs, err := marshalDocs(ticket)
	if err != nil {
		return err
	}
	const query = `
        UPDATE tickets SET title=$1, description=$2, type=$3, priority=$4, status=$5,
            assigned_to_id=$6, tasks=$7, logs=$8, attachments=$9, resolution=$10,
            rejection=$11, updated_at=NOW()
        WHERE id=$12`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Type,
		ticket.Priority,
		ticket.Status,
		ticket.AssignedToID,
		docs.tasks,
		docs.logs,
		docs.attachments,
		docs.resolution,
		docs.rejection,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const ticketColumns = `id, title, description, type, priority, status, created_by_id,
        created_by_name, assigned_to_id, tasks, logs, attachments, resolution, rejection,
        created_at, updated_at`

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1`, ticketColumns)
	row := r.pool.QueryRow(ctx, query, id)
	return scanTicket(row)
}

func (r *ticketRepository) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets ORDER BY created_at DESC`, ticketColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

type ticketDocs struct {
	tasks       []byte
	logs        []byte
	attachments []byte
	resolution  []byte
	rejection   []byte
}

func marshalDocs(ticket *domain.Ticket) (ticketDocs, error) {
	var docs ticketDocs
	var err error
	if docs.tasks, err = json.Marshal(emptyIfNilTasks(ticket.Tasks)); err != nil {
		return docs, err
	}
	if docs.logs, err = json.Marshal(emptyIfNilLogs(ticket.Logs)); err != nil {
		return docs, err
	}
	if docs.attachments, err = json.Marshal(emptyIfNilAttachments(ticket.Attachments)); err != nil {
		return docs, err
	}
	if ticket.Resolution != nil {
		if docs.resolution, err = json.Marshal(ticket.Resolution); err != nil {
			return docs, err
		}
	}
	if ticket.Rejection != nil {
		if docs.rejection, err = json.Marshal(ticket.Rejection); err != nil {
			return docs, err
		}
	}
	return docs, nil
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	var tasks, logs, attachments []byte
	var resolution, rejection []byte
	if err := row.Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Type,
		&ticket.Priority,
		&ticket.Status,
		&ticket.CreatedByID,
		&ticket.CreatedByName,
		&ticket.AssignedToID,
		&tasks,
		&logs,
		&attachments,
		&resolution,
		&rejection,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(tasks, &ticket.Tasks); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(logs, &ticket.Logs); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(attachments, &ticket.Attachments); err != nil {
		return nil, err
	}
	if len(resolution) > 0 {
		ticket.Resolution = &domain.Resolution{}
		if err := json.Unmarshal(resolution, ticket.Resolution); err != nil {
			return nil, err
		}
	}
	if len(rejection) > 0 {
		ticket.Rejection = &domain.Rejection{}
		if err := json.Unmarshal(rejection, ticket.Rejection); err != nil {
			return nil, err
		}
	}
	return &ticket, nil
}

func emptyIfNilTasks(in []domain.Task) []domain.Task {
	if in == nil {
		return []domain.Task{}
	}
	return in
}

func emptyIfNilLogs(in []domain.LogEntry) []domain.LogEntry {
	if in == nil {
		return []domain.LogEntry{}
	}
	return in
}

func emptyIfNilAttachments(in []domain.Attachment) []domain.Attachment {
	if in == nil {
		return []domain.Attachment{}
	}
	return in
}
