package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"closet-backend/internal/domain"
	"closet-backend/internal/repository"
)

type customerRepository struct {
	db DBTX
}

func NewCustomerRepository(db DBTX) repository.CustomerRepository {
	return &customerRepository{db: db}
}

// reservations_count is derived at read time, never stored.
const customerColumns = `c.id, c.name, c.document, c.phone, c.email, c.address, c.postal_code,
	c.financial_status, c.is_recurring, c.notes,
	(SELECT count(*) FROM reservations r WHERE r.customer_id = c.id) AS reservations_count,
	c.created_on, c.updated_on`

func (r *customerRepository) Create(ctx context.Context, c *domain.Customer) error {
	now := time.Now()
	query := `INSERT INTO customers (name, document, phone, email, address, postal_code, financial_status, is_recurring, notes, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		c.Name, c.Document, c.Phone, c.Email, c.Address, c.PostalCode,
		c.FinancialStatus, c.IsRecurring, c.Notes, now, now).Scan(&c.ID)
	if err != nil {
		return domain.NewStoreError("create customer", err)
	}
	c.CreatedOn = now
	c.UpdatedOn = now
	return nil
}

func (r *customerRepository) GetByID(ctx context.Context, id int32) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers c WHERE c.id = $1`
	c, err := scanCustomer(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &domain.NotFoundError{Entity: "customer", ID: id}
	}
	if err != nil {
		return nil, domain.NewStoreError("get customer", err)
	}
	return c, nil
}

func (r *customerRepository) Update(ctx context.Context, c *domain.Customer) error {
	query := `UPDATE customers SET name=$1, document=$2, phone=$3, email=$4, address=$5, postal_code=$6,
	          financial_status=$7, is_recurring=$8, notes=$9, updated_on=$10 WHERE id=$11`
	res, err := r.db.ExecContext(ctx, query,
		c.Name, c.Document, c.Phone, c.Email, c.Address, c.PostalCode,
		c.FinancialStatus, c.IsRecurring, c.Notes, time.Now(), c.ID)
	if err != nil {
		return domain.NewStoreError("update customer", err)
	}
	return checkAffected(res, "customer", c.ID)
}

func (r *customerRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return &domain.ReferentialConflictError{Entity: "customer", ID: id, DependsOn: "reservations"}
		}
		return domain.NewStoreError("delete customer", err)
	}
	return checkAffected(res, "customer", id)
}

func (r *customerRepository) List(ctx context.Context, query string, page, pageSize int32) ([]domain.Customer, int32, error) {
	where := ""
	args := []any{}
	if query != "" {
		where = ` WHERE c.name ILIKE $1 OR c.email ILIKE $1 OR c.document ILIKE $1`
		args = append(args, "%"+query+"%")
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM customers c`+where, args...).Scan(&count); err != nil {
		return nil, 0, domain.NewStoreError("count customers", err)
	}

	sel := `SELECT ` + customerColumns + ` FROM customers c` + where +
		fmt.Sprintf(` ORDER BY c.name LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.QueryContext(ctx, sel, args...)
	if err != nil {
		return nil, 0, domain.NewStoreError("list customers", err)
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, domain.NewStoreError("scan customer", err)
		}
		customers = append(customers, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, domain.NewStoreError("list customers", err)
	}
	return customers, count, nil
}

func (r *customerRepository) CountRecurring(ctx context.Context) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM customers WHERE is_recurring = true`).Scan(&count)
	if err != nil {
		return 0, domain.NewStoreError("count recurring customers", err)
	}
	return count, nil
}

func scanCustomer(row rowScanner) (*domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Document, &c.Phone, &c.Email, &c.Address, &c.PostalCode,
		&c.FinancialStatus, &c.IsRecurring, &c.Notes, &c.ReservationsCount, &c.CreatedOn, &c.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
