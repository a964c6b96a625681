package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/wms/internal/domain"
)

const opTimeout = 5 * time.Second

// txOrderStore — запись шапок и позиций заказа внутри открытой транзакции.
type txOrderStore struct {
	tx *sql.Tx
}

func (s *txOrderStore) InsertOrder(ctx context.Context, order domain.Order) error {
	_, err := s.tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, customer_id, order_date, status, total_amount,
			delivery_date, payment_status, notes, created_at
		) VALUES ($1,$2,$3::date,$4,$5,NULLIF($6,'')::date,$7,$8,$9)
	`,
		order.ID, order.CustomerID, order.OrderDate, order.Status, order.TotalAmount,
		order.DeliveryDate, order.PaymentStatus, order.Notes, order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (s *txOrderStore) UpdateOrder(ctx context.Context, order domain.Order) error {
	res, err := s.tx.ExecContext(ctx, `
		UPDATE orders
		SET customer_id = $1,
		    order_date = $2::date,
		    status = $3,
		    total_amount = $4,
		    delivery_date = NULLIF($5,'')::date,
		    payment_status = $6,
		    notes = $7
		WHERE id = $8
	`,
		order.CustomerID, order.OrderDate, order.Status, order.TotalAmount,
		order.DeliveryDate, order.PaymentStatus, order.Notes, order.ID,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (s *txOrderStore) DeleteOrder(ctx context.Context, id string) error {
	if _, err := s.tx.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

func (s *txOrderStore) InsertItem(ctx context.Context, item domain.OrderItem) error {
	_, err := s.tx.ExecContext(ctx, `
		INSERT INTO order_items (
			id, order_id, product_id, product_name, quantity, unit_price, total_price, position
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		item.ID, item.OrderID, item.ProductID, item.ProductName,
		item.Quantity, item.UnitPrice, item.TotalPrice, item.Position,
	)
	if err != nil {
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

func (s *txOrderStore) DeleteItems(ctx context.Context, orderID string) error {
	if _, err := s.tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID); err != nil {
		return fmt.Errorf("delete order items: %w", err)
	}
	return nil
}

func (s *txOrderStore) GetItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := s.tx.QueryContext(ctx, `
		SELECT id, order_id, product_id, product_name, quantity, unit_price, total_price, position
		FROM order_items
		WHERE order_id = $1
		ORDER BY position ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

// Get возвращает заказ с позициями или ErrOrderNotFound.
func (s *Store) Get(ctx context.Context, id string) (domain.Order, error) {
	queryCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var order domain.Order
	err := s.db.QueryRowContext(queryCtx, `
		SELECT id, customer_id, order_date::text, status, total_amount,
		       COALESCE(delivery_date::text, ''), payment_status, notes, created_at
		FROM orders
		WHERE id = $1
	`, id).Scan(
		&order.ID, &order.CustomerID, &order.OrderDate, &order.Status, &order.TotalAmount,
		&order.DeliveryDate, &order.PaymentStatus, &order.Notes, &order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}

	rows, err := s.db.QueryContext(queryCtx, `
		SELECT id, order_id, product_id, product_name, quantity, unit_price, total_price, position
		FROM order_items
		WHERE order_id = $1
		ORDER BY position ASC
	`, id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	items, err := scanItems(rows)
	if err != nil {
		return domain.Order{}, err
	}
	order.Items = items
	return order, nil
}

// List возвращает заказы с именем клиента, без позиций. INNER JOIN:
// заказы без клиента в списке не участвуют.
func (s *Store) List(ctx context.Context) ([]domain.OrderSummary, error) {
	queryCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(queryCtx, `
		SELECT o.id, o.customer_id, o.order_date::text, o.status, o.total_amount,
		       COALESCE(o.delivery_date::text, ''), o.payment_status, o.notes, o.created_at,
		       c.name
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		ORDER BY o.order_date DESC, o.created_at ASC, o.id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	result := make([]domain.OrderSummary, 0)
	for rows.Next() {
		var summary domain.OrderSummary
		if err := rows.Scan(
			&summary.ID, &summary.CustomerID, &summary.OrderDate, &summary.Status, &summary.TotalAmount,
			&summary.DeliveryDate, &summary.PaymentStatus, &summary.Notes, &summary.CreatedAt,
			&summary.CustomerName,
		); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		result = append(result, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	return result, nil
}

func scanItems(rows *sql.Rows) ([]domain.OrderItem, error) {
	items := make([]domain.OrderItem, 0)
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.Quantity, &item.UnitPrice, &item.TotalPrice, &item.Position,
		); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}
	return items, nil
}

var (
	_ domain.OrderStore  = (*txOrderStore)(nil)
	_ domain.OrderReader = (*Store)(nil)
)
