package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/spec-kit/support-desk/internal/domain"
)

// CustomerRepository defines persistence access for customers.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
}

// AdminRepository defines persistence access for administrators.
type AdminRepository interface {
	Create(ctx context.Context, admin *domain.Admin) error
	GetByID(ctx context.Context, id int64) (*domain.Admin, error)
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
}

// principal is the shared row shape of the customers and admins tables.
type principal struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

type principalTable struct {
	db     Querier
	table  string
	entity string
}

func (t principalTable) create(ctx context.Context, p *principal) error {
	query, args, err := psql.Insert(t.table).
		Columns("name", "email", "password_hash").
		Values(p.Name, p.Email, p.PasswordHash).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return err
	}
	err = t.db.QueryRow(ctx, query, args...).Scan(&p.ID, &p.CreatedAt)
	return mapError(err, t.entity, p.Email)
}

func (t principalTable) get(ctx context.Context, where sq.Eq, key any) (*principal, error) {
	query, args, err := psql.Select("id", "name", "email", "password_hash", "created_at").
		From(t.table).
		Where(where).
		ToSql()
	if err != nil {
		return nil, err
	}
	var p principal
	if err := t.db.QueryRow(ctx, query, args...).Scan(&p.ID, &p.Name, &p.Email, &p.PasswordHash, &p.CreatedAt); err != nil {
		return nil, mapError(err, t.entity, key)
	}
	return &p, nil
}

type customerRepository struct {
	rows principalTable
}

// NewCustomerRepository returns a Postgres-backed implementation.
func NewCustomerRepository(db Querier) CustomerRepository {
	return &customerRepository{rows: principalTable{db: db, table: "customers", entity: "customer"}}
}

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	p := principal{Name: customer.Name, Email: customer.Email, PasswordHash: customer.PasswordHash}
	if err := r.rows.create(ctx, &p); err != nil {
		return err
	}
	customer.ID = p.ID
	customer.CreatedAt = p.CreatedAt
	return nil
}

func (r *customerRepository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	p, err := r.rows.get(ctx, sq.Eq{"id": id}, id)
	if err != nil {
		return nil, err
	}
	return p.customer(), nil
}

func (r *customerRepository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	p, err := r.rows.get(ctx, sq.Eq{"email": email}, email)
	if err != nil {
		return nil, err
	}
	return p.customer(), nil
}

type adminRepository struct {
	rows principalTable
}

// NewAdminRepository returns a Postgres-backed implementation.
func NewAdminRepository(db Querier) AdminRepository {
	return &adminRepository{rows: principalTable{db: db, table: "admins", entity: "admin"}}
}

func (r *adminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	p := principal{Name: admin.Name, Email: admin.Email, PasswordHash: admin.PasswordHash}
	if err := r.rows.create(ctx, &p); err != nil {
		return err
	}
	admin.ID = p.ID
	admin.CreatedAt = p.CreatedAt
	return nil
}

func (r *adminRepository) GetByID(ctx context.Context, id int64) (*domain.Admin, error) {
	p, err := r.rows.get(ctx, sq.Eq{"id": id}, id)
	if err != nil {
		return nil, err
	}
	return p.admin(), nil
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	p, err := r.rows.get(ctx, sq.Eq{"email": email}, email)
	if err != nil {
		return nil, err
	}
	return p.admin(), nil
}

func (p *principal) customer() *domain.Customer {
	return &domain.Customer{ID: p.ID, Name: p.Name, Email: p.Email, PasswordHash: p.PasswordHash, CreatedAt: p.CreatedAt}
}

func (p *principal) admin() *domain.Admin {
	return &domain.Admin{ID: p.ID, Name: p.Name, Email: p.Email, PasswordHash: p.PasswordHash, CreatedAt: p.CreatedAt}
}
