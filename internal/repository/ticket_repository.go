package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hydrotek/service-desk/internal/domain"
)

const ticketColumns = `id, ticket_number, status, created_by, created_at, updated_at,
        country, customer_name, contact, dealer, email,
        attachment_type, attachment_model, attachment_serial,
        installed_at, failed_at, symptom, attachments`

// TicketRepository encapsulates the record-store contract for tickets: insert,
// the read paths of the query facade, the sequence procedures and the guarded
// status update.
type TicketRepository interface {
	Insert(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListByCreator(ctx context.Context, email string) ([]domain.Ticket, error)
	ListAll(ctx context.Context) ([]domain.Ticket, error)
	NextSequenceNumber(ctx context.Context) (int64, error)
	MaxTicketNumber(ctx context.Context) (int64, error)
	SetStatus(ctx context.Context, id string, from, to domain.TicketStatus) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

// Insert persists the ticket. The ticket number is assigned inside the
// statement from the authoritative sequence; a unique-violation under
// concurrent submitters is retried so no number is ever reused.
func (r *ticketRepository) Insert(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (ticket_number, status, created_by,
            country, customer_name, contact, dealer, email,
            attachment_type, attachment_model, attachment_serial,
            installed_at, failed_at, symptom, attachments)
        VALUES (next_ticket_number(), $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
        RETURNING id, ticket_number, created_at, updated_at`

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		err := r.pool.QueryRow(ctx, query,
			ticket.Status,
			ticket.CreatedBy,
			ticket.Country,
			ticket.CustomerName,
			ticket.Contact,
			ticket.Dealer,
			ticket.Email,
			ticket.AttachmentType,
			ticket.AttachmentModel,
			ticket.AttachmentSerial,
			ticket.InstalledAt,
			ticket.FailedAt,
			ticket.Symptom,
			ticket.Attachments,
		).Scan(&ticket.ID, &ticket.TicketNumber, &ticket.CreatedAt, &ticket.UpdatedAt)
		if err == nil {
			return nil
		}
		if !isUniqueViolation(err) {
			return err
		}
		lastErr = err
	}
	return lastErr
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	if err := scanTicket(r.pool.QueryRow(ctx, query, id), &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListByCreator(ctx context.Context, email string) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE created_by=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

// NextSequenceNumber invokes the named counter procedure.
func (r *ticketRepository) NextSequenceNumber(ctx context.Context) (int64, error) {
	var next int64
	if err := r.pool.QueryRow(ctx, `SELECT next_ticket_number()`).Scan(&next); err != nil {
		return 0, err
	}
	return next, nil
}

// MaxTicketNumber returns the highest assigned number, or the base seed when
// no tickets exist.
func (r *ticketRepository) MaxTicketNumber(ctx context.Context) (int64, error) {
	var max int64
	if err := r.pool.QueryRow(ctx, `SELECT COALESCE(MAX(ticket_number), 1000) FROM tickets`).Scan(&max); err != nil {
		return 0, err
	}
	return max, nil
}

// SetStatus applies the transition as a compare-and-swap against the status
// the caller observed. Zero rows means the ticket moved underneath us (or is
// gone) and the authority rejected the change.
func (r *ticketRepository) SetStatus(ctx context.Context, id string, from, to domain.TicketStatus) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE tickets SET status=$1, updated_at=NOW() WHERE id=$2 AND status=$3`,
		to, id, from)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanTicket(row pgx.Row, ticket *domain.Ticket) error {
	return row.Scan(
		&ticket.ID,
		&ticket.TicketNumber,
		&ticket.Status,
		&ticket.CreatedBy,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.Country,
		&ticket.CustomerName,
		&ticket.Contact,
		&ticket.Dealer,
		&ticket.Email,
		&ticket.AttachmentType,
		&ticket.AttachmentModel,
		&ticket.AttachmentSerial,
		&ticket.InstalledAt,
		&ticket.FailedAt,
		&ticket.Symptom,
		&ticket.Attachments,
	)
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := scanTicket(rows, &ticket); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
