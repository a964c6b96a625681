package domain

import "context"

// OrderStore описывает требования к хранилищу шапок и позиций заказа
// внутри открытой транзакции. Бизнес-валидации здесь нет: оркестратор —
// единственный вызывающий и отвечает за порядок операций.
type OrderStore interface {
	// InsertOrder сохраняет новую шапку заказа.
	InsertOrder(ctx context.Context, order Order) error
	// UpdateOrder применяет изменения шапки или возвращает ErrOrderNotFound.
	UpdateOrder(ctx context.Context, order Order) error
	// DeleteOrder удаляет шапку; отсутствие строки не считается ошибкой.
	DeleteOrder(ctx context.Context, id string) error
	// InsertItem сохраняет позицию заказа.
	InsertItem(ctx context.Context, item OrderItem) error
	// DeleteItems удаляет все позиции заказа.
	DeleteItems(ctx context.Context, orderID string) error
	// GetItems возвращает позиции заказа в порядке вставки.
	GetItems(ctx context.Context, orderID string) ([]OrderItem, error)
}

// InventoryLedger владеет машиной складских статусов. Количество и статус
// сохраняются вместе; вызовы выполняются только внутри транзакции
// оркестратора с удержанием блокировки строки каталога.
type InventoryLedger interface {
	// Decrement списывает qty единиц и пересчитывает статус по новому количеству.
	Decrement(ctx context.Context, productID string, qty int32) (InventoryItem, error)
	// Increment возвращает qty единиц; статус "лечится" от прежнего значения.
	Increment(ctx context.Context, productID string, qty int32) (InventoryItem, error)
}

// Tx — видимость хранилищ внутри одной атомарной единицы работы.
type Tx interface {
	Orders() OrderStore
	Inventory() InventoryLedger
}

// UnitOfWork выполняет fn в рамках одной транзакции: фиксация при обычном
// возврате, полный откат при любой ошибке или панике.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}

// OrderReader — сторона чтения вне транзакции.
type OrderReader interface {
	// Get возвращает заказ с позициями или ErrOrderNotFound.
	Get(ctx context.Context, id string) (Order, error)
	// List возвращает заказы с именем клиента, без позиций,
	// отсортированные по дате заказа по убыванию.
	List(ctx context.Context) ([]OrderSummary, error)
}

// InventoryRepository — CRUD каталога для управления складом. Изменение
// количества этим путём не пересчитывает статус (поведение неопределено
// для консистентности статуса; статус ведёт только леджер).
type InventoryRepository interface {
	Create(ctx context.Context, item InventoryItem) (InventoryItem, error)
	Get(ctx context.Context, id string) (InventoryItem, error)
	List(ctx context.Context) ([]InventoryItem, error)
	Update(ctx context.Context, item InventoryItem) (InventoryItem, error)
	Delete(ctx context.Context, id string) error
}

// CustomerRepository — CRUD клиентов с агрегатами по заказам.
type CustomerRepository interface {
	Create(ctx context.Context, customer Customer) (Customer, error)
	Get(ctx context.Context, id string) (CustomerSummary, error)
	List(ctx context.Context) ([]CustomerSummary, error)
	Update(ctx context.Context, customer Customer) (Customer, error)
	Delete(ctx context.Context, id string) error
}
