package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/wms/internal/domain"
)

const customerColumns = `id, name, email, phone_number, address, company, notes, created_date::text`

// CreateCustomer добавляет клиента.
func (s *Store) CreateCustomer(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	queryCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	err := s.db.QueryRowContext(queryCtx, `
		INSERT INTO customers (
			id, name, email, phone_number, address, company, notes, created_date
		) VALUES ($1,$2,$3,$4,$5,$6,$7,COALESCE(NULLIF($8,'')::date, CURRENT_DATE))
		RETURNING `+customerColumns+`
	`,
		customer.ID, customer.Name, customer.Email, customer.PhoneNumber,
		customer.Address, customer.Company, customer.Notes, customer.CreatedDate,
	).Scan(
		&customer.ID, &customer.Name, &customer.Email, &customer.PhoneNumber,
		&customer.Address, &customer.Company, &customer.Notes, &customer.CreatedDate,
	)
	if err != nil {
		return domain.Customer{}, fmt.Errorf("insert customer: %w", err)
	}
	return customer, nil
}

// GetCustomer возвращает клиента с агрегатами по заказам.
func (s *Store) GetCustomer(ctx context.Context, id string) (domain.CustomerSummary, error) {
	queryCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var summary domain.CustomerSummary
	err := s.db.QueryRowContext(queryCtx, `
		SELECT c.id, c.name, c.email, c.phone_number, c.address, c.company, c.notes, c.created_date::text,
		       COUNT(o.id), COALESCE(SUM(o.total_amount), 0)
		FROM customers c
		LEFT JOIN orders o ON o.customer_id = c.id
		WHERE c.id = $1
		GROUP BY c.id
	`, id).Scan(
		&summary.ID, &summary.Name, &summary.Email, &summary.PhoneNumber,
		&summary.Address, &summary.Company, &summary.Notes, &summary.CreatedDate,
		&summary.TotalOrders, &summary.TotalSpent,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CustomerSummary{}, domain.ErrCustomerNotFound
		}
		return domain.CustomerSummary{}, fmt.Errorf("select customer: %w", err)
	}
	return summary, nil
}

// ListCustomers возвращает клиентов с агрегатами, отсортированных по имени.
func (s *Store) ListCustomers(ctx context.Context) ([]domain.CustomerSummary, error) {
	queryCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(queryCtx, `
		SELECT c.id, c.name, c.email, c.phone_number, c.address, c.company, c.notes, c.created_date::text,
		       COUNT(o.id), COALESCE(SUM(o.total_amount), 0)
		FROM customers c
		LEFT JOIN orders o ON o.customer_id = c.id
		GROUP BY c.id
		ORDER BY c.name ASC, c.id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	result := make([]domain.CustomerSummary, 0)
	for rows.Next() {
		var summary domain.CustomerSummary
		if err := rows.Scan(
			&summary.ID, &summary.Name, &summary.Email, &summary.PhoneNumber,
			&summary.Address, &summary.Company, &summary.Notes, &summary.CreatedDate,
			&summary.TotalOrders, &summary.TotalSpent,
		); err != nil {
			return nil, fmt.Errorf("scan customer row: %w", err)
		}
		result = append(result, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customer rows: %w", err)
	}
	return result, nil
}

// UpdateCustomer перезаписывает клиента.
func (s *Store) UpdateCustomer(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	queryCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	err := s.db.QueryRowContext(queryCtx, `
		UPDATE customers
		SET name = $1, email = $2, phone_number = $3, address = $4, company = $5, notes = $6
		WHERE id = $7
		RETURNING `+customerColumns+`
	`,
		customer.Name, customer.Email, customer.PhoneNumber,
		customer.Address, customer.Company, customer.Notes, customer.ID,
	).Scan(
		&customer.ID, &customer.Name, &customer.Email, &customer.PhoneNumber,
		&customer.Address, &customer.Company, &customer.Notes, &customer.CreatedDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Customer{}, domain.ErrCustomerNotFound
		}
		return domain.Customer{}, fmt.Errorf("update customer: %w", err)
	}
	return customer, nil
}

// DeleteCustomer удаляет клиента.
func (s *Store) DeleteCustomer(ctx context.Context, id string) error {
	queryCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.db.ExecContext(queryCtx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

// Customers отдаёт CRUD-обёртку клиентов поверх хранилища.
func (s *Store) Customers() domain.CustomerRepository { return pgCustomers{s} }

type pgCustomers struct{ s *Store }

func (c pgCustomers) Create(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	return c.s.CreateCustomer(ctx, customer)
}

func (c pgCustomers) Get(ctx context.Context, id string) (domain.CustomerSummary, error) {
	return c.s.GetCustomer(ctx, id)
}

func (c pgCustomers) List(ctx context.Context) ([]domain.CustomerSummary, error) {
	return c.s.ListCustomers(ctx)
}

func (c pgCustomers) Update(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	return c.s.UpdateCustomer(ctx, customer)
}

func (c pgCustomers) Delete(ctx context.Context, id string) error {
	return c.s.DeleteCustomer(ctx, id)
}

var _ domain.CustomerRepository = (pgCustomers{})
