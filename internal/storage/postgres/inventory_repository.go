package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/wms/internal/domain"
)

// txLedger — складской леджер внутри открытой транзакции. Строка каталога
// читается с FOR UPDATE, так что пересчёт статуса и запись количества
// атомарны относительно конкурентных транзакций.
type txLedger struct {
	tx *sql.Tx
}

func (l *txLedger) Decrement(ctx context.Context, productID string, qty int32) (domain.InventoryItem, error) {
	return l.adjust(ctx, productID, qty, domain.StockDecrement)
}

func (l *txLedger) Increment(ctx context.Context, productID string, qty int32) (domain.InventoryItem, error) {
	return l.adjust(ctx, productID, qty, domain.StockIncrement)
}

func (l *txLedger) adjust(ctx context.Context, productID string, qty int32, dir domain.StockDirection) (domain.InventoryItem, error) {
	var (
		quantity int32
		status   string
	)
	err := l.tx.QueryRowContext(ctx, `
		SELECT quantity, status
		FROM inventory
		WHERE id = $1
		FOR UPDATE
	`, productID).Scan(&quantity, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.InventoryItem{}, domain.ErrProductNotFound
		}
		return domain.InventoryItem{}, fmt.Errorf("lock inventory row: %w", err)
	}

	newStatus, newQty := domain.NextStock(domain.StockStatus(status), quantity, qty, dir)

	var item domain.InventoryItem
	err = l.tx.QueryRowContext(ctx, `
		UPDATE inventory
		SET quantity = $1, status = $2, last_updated = NOW()
		WHERE id = $3
		RETURNING id, name, type, quantity, unit, price, location, status, description, image, last_updated
	`, newQty, string(newStatus), productID).Scan(
		&item.ID, &item.Name, &item.Type, &item.Quantity, &item.Unit, &item.Price,
		&item.Location, &item.Status, &item.Description, &item.Image, &item.LastUpdated,
	)
	if err != nil {
		return domain.InventoryItem{}, fmt.Errorf("update inventory row: %w", err)
	}
	return item, nil
}

const inventoryColumns = `id, name, type, quantity, unit, price, location, status, description, image, last_updated`

// CreateInventory добавляет позицию каталога.
func (s *Store) CreateInventory(ctx context.Context, item domain.InventoryItem) (domain.InventoryItem, error) {
	queryCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	err := s.db.QueryRowContext(queryCtx, `
		INSERT INTO inventory (
			id, name, type, quantity, unit, price, location, status, description, image, last_updated
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,NOW())
		RETURNING `+inventoryColumns+`
	`,
		item.ID, item.Name, item.Type, item.Quantity, item.Unit, item.Price,
		item.Location, string(item.Status), item.Description, item.Image,
	).Scan(
		&item.ID, &item.Name, &item.Type, &item.Quantity, &item.Unit, &item.Price,
		&item.Location, &item.Status, &item.Description, &item.Image, &item.LastUpdated,
	)
	if err != nil {
		return domain.InventoryItem{}, fmt.Errorf("insert inventory: %w", err)
	}
	return item, nil
}

// GetInventory возвращает позицию каталога или ErrProductNotFound.
func (s *Store) GetInventory(ctx context.Context, id string) (domain.InventoryItem, error) {
	queryCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var item domain.InventoryItem
	err := s.db.QueryRowContext(queryCtx, `
		SELECT `+inventoryColumns+`
		FROM inventory
		WHERE id = $1
	`, id).Scan(
		&item.ID, &item.Name, &item.Type, &item.Quantity, &item.Unit, &item.Price,
		&item.Location, &item.Status, &item.Description, &item.Image, &item.LastUpdated,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.InventoryItem{}, domain.ErrProductNotFound
		}
		return domain.InventoryItem{}, fmt.Errorf("select inventory: %w", err)
	}
	return item, nil
}

// ListInventory возвращает каталог, отсортированный по имени.
func (s *Store) ListInventory(ctx context.Context) ([]domain.InventoryItem, error) {
	queryCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(queryCtx, `
		SELECT `+inventoryColumns+`
		FROM inventory
		ORDER BY name ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	result := make([]domain.InventoryItem, 0)
	for rows.Next() {
		var item domain.InventoryItem
		if err := rows.Scan(
			&item.ID, &item.Name, &item.Type, &item.Quantity, &item.Unit, &item.Price,
			&item.Location, &item.Status, &item.Description, &item.Image, &item.LastUpdated,
		); err != nil {
			return nil, fmt.Errorf("scan inventory row: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inventory rows: %w", err)
	}
	return result, nil
}

// UpdateInventory перезаписывает позицию каталога. Прямое изменение
// количества статус не пересчитывает: статус ведёт только леджер.
func (s *Store) UpdateInventory(ctx context.Context, item domain.InventoryItem) (domain.InventoryItem, error) {
	queryCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	err := s.db.QueryRowContext(queryCtx, `
		UPDATE inventory
		SET name = $1, type = $2, quantity = $3, unit = $4, price = $5,
		    location = $6, status = $7, description = $8, image = $9, last_updated = NOW()
		WHERE id = $10
		RETURNING `+inventoryColumns+`
	`,
		item.Name, item.Type, item.Quantity, item.Unit, item.Price,
		item.Location, string(item.Status), item.Description, item.Image, item.ID,
	).Scan(
		&item.ID, &item.Name, &item.Type, &item.Quantity, &item.Unit, &item.Price,
		&item.Location, &item.Status, &item.Description, &item.Image, &item.LastUpdated,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.InventoryItem{}, domain.ErrProductNotFound
		}
		return domain.InventoryItem{}, fmt.Errorf("update inventory: %w", err)
	}
	return item, nil
}

// DeleteInventory удаляет позицию каталога.
func (s *Store) DeleteInventory(ctx context.Context, id string) error {
	queryCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.db.ExecContext(queryCtx, `DELETE FROM inventory WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete inventory: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// Catalog отдаёт CRUD-обёртку каталога поверх хранилища.
func (s *Store) Catalog() domain.InventoryRepository { return pgCatalog{s} }

type pgCatalog struct{ s *Store }

func (c pgCatalog) Create(ctx context.Context, item domain.InventoryItem) (domain.InventoryItem, error) {
	return c.s.CreateInventory(ctx, item)
}

func (c pgCatalog) Get(ctx context.Context, id string) (domain.InventoryItem, error) {
	return c.s.GetInventory(ctx, id)
}

func (c pgCatalog) List(ctx context.Context) ([]domain.InventoryItem, error) {
	return c.s.ListInventory(ctx)
}

func (c pgCatalog) Update(ctx context.Context, item domain.InventoryItem) (domain.InventoryItem, error) {
	return c.s.UpdateInventory(ctx, item)
}

func (c pgCatalog) Delete(ctx context.Context, id string) error {
	return c.s.DeleteInventory(ctx, id)
}

var (
	_ domain.InventoryLedger     = (*txLedger)(nil)
	_ domain.InventoryRepository = (pgCatalog{})
)
