package repository

import (
	"context"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/support-desk/internal/domain"
)

// TicketRepository encapsulates ticket persistence. Every mutating method is a
// single statement, so a concurrent reader never sees a half-applied change.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	GetDetail(ctx context.Context, id int64) (*domain.TicketDetail, error)
	List(ctx context.Context, filter domain.TicketFilter) ([]domain.Ticket, error)
	Count(ctx context.Context, filter domain.TicketFilter) (int64, error)
	Update(ctx context.Context, id int64, patch domain.TicketPatch) (*domain.Ticket, error)
	Delete(ctx context.Context, id int64) (*domain.Ticket, error)
}

var ticketColumns = []string{
	"id", "subject", "description", "status", "customer_id", "admin_id", "created_at", "updated_at",
}

type ticketRepository struct {
	db Querier
}

// NewTicketRepository instantiates a Postgres-backed repository.
func NewTicketRepository(db Querier) TicketRepository {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	query, args, err := psql.Insert("tickets").
		Columns("subject", "description", "status", "customer_id", "admin_id").
		Values(ticket.Subject, ticket.Description, string(ticket.Status), ticket.CustomerID, ticket.AdminID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return err
	}
	err = r.db.QueryRow(ctx, query, args...).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
	return mapError(err, "ticket", "new")
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	query, args, err := psql.Select(ticketColumns...).From("tickets").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	ticket, err := scanTicket(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapError(err, "ticket", id)
	}
	return ticket, nil
}

func (r *ticketRepository) GetDetail(ctx context.Context, id int64) (*domain.TicketDetail, error) {
	const query = `
        SELECT t.id, t.subject, t.description, t.status, t.customer_id, t.admin_id, t.created_at, t.updated_at,
               c.name, c.email, c.created_at,
               a.name, a.email, a.created_at
        FROM tickets t
        JOIN customers c ON c.id = t.customer_id
        LEFT JOIN admins a ON a.id = t.admin_id
        WHERE t.id = $1`

	var (
		detail         domain.TicketDetail
		status         string
		customer       domain.Customer
		adminName      *string
		adminEmail     *string
		adminCreatedAt *time.Time
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&detail.ID,
		&detail.Subject,
		&detail.Description,
		&status,
		&detail.CustomerID,
		&detail.AdminID,
		&detail.CreatedAt,
		&detail.UpdatedAt,
		&customer.Name,
		&customer.Email,
		&customer.CreatedAt,
		&adminName,
		&adminEmail,
		&adminCreatedAt,
	)
	if err != nil {
		return nil, mapError(err, "ticket", id)
	}
	detail.Status = domain.TicketStatus(status)
	customer.ID = detail.CustomerID
	detail.Customer = &customer
	if detail.AdminID != nil && adminName != nil {
		admin := domain.Admin{ID: *detail.AdminID, Name: *adminName}
		if adminEmail != nil {
			admin.Email = *adminEmail
		}
		if adminCreatedAt != nil {
			admin.CreatedAt = *adminCreatedAt
		}
		detail.Admin = &admin
	}
	return &detail, nil
}

func (r *ticketRepository) List(ctx context.Context, filter domain.TicketFilter) ([]domain.Ticket, error) {
	builder := applyFilter(psql.Select(ticketColumns...).From("tickets"), filter).
		OrderBy("created_at DESC", "id DESC")
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "tickets", "list")
	}
	defer rows.Close()

	tickets := []domain.Ticket{}
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, mapError(err, "tickets", "list")
		}
		tickets = append(tickets, *ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "tickets", "list")
	}
	return tickets, nil
}

func (r *ticketRepository) Count(ctx context.Context, filter domain.TicketFilter) (int64, error) {
	query, args, err := applyFilter(psql.Select("COUNT(*)").From("tickets"), filter).ToSql()
	if err != nil {
		return 0, err
	}
	var total int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, mapError(err, "tickets", "count")
	}
	return total, nil
}

func (r *ticketRepository) Update(ctx context.Context, id int64, patch domain.TicketPatch) (*domain.Ticket, error) {
	if patch.Empty() {
		return r.GetByID(ctx, id)
	}
	builder := psql.Update("tickets")
	if patch.Subject != nil {
		builder = builder.Set("subject", *patch.Subject)
	}
	if patch.Description != nil {
		builder = builder.Set("description", *patch.Description)
	}
	if patch.Status != nil {
		builder = builder.Set("status", string(*patch.Status))
	}
	if patch.AdminID != nil {
		builder = builder.Set("admin_id", *patch.AdminID)
	}
	query, args, err := builder.
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		Suffix(returningTicket()).
		ToSql()
	if err != nil {
		return nil, err
	}
	ticket, err := scanTicket(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapError(err, "ticket", id)
	}
	return ticket, nil
}

func (r *ticketRepository) Delete(ctx context.Context, id int64) (*domain.Ticket, error) {
	query, args, err := psql.Delete("tickets").Where(sq.Eq{"id": id}).Suffix(returningTicket()).ToSql()
	if err != nil {
		return nil, err
	}
	ticket, err := scanTicket(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapError(err, "ticket", id)
	}
	return ticket, nil
}

func applyFilter(builder sq.SelectBuilder, filter domain.TicketFilter) sq.SelectBuilder {
	if filter.CustomerID != nil {
		builder = builder.Where(sq.Eq{"customer_id": *filter.CustomerID})
	}
	if filter.Status != nil {
		builder = builder.Where(sq.Eq{"status": string(*filter.Status)})
	}
	return builder
}

func returningTicket() string {
	return "RETURNING " + strings.Join(ticketColumns, ", ")
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var (
		ticket domain.Ticket
		status string
	)
	if err := row.Scan(
		&ticket.ID,
		&ticket.Subject,
		&ticket.Description,
		&status,
		&ticket.CustomerID,
		&ticket.AdminID,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	ticket.Status = domain.TicketStatus(status)
	return &ticket, nil
}
