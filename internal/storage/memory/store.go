package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/wms/internal/domain"
)

// Store — in-memory реализация всех портов хранилища для локальной
// разработки и тестов. Транзакция моделируется рабочей копией данных:
// fn мутирует копию, успешный возврат подменяет живые карты, ошибка —
// отбрасывает копию целиком.
type Store struct {
	mu        sync.RWMutex
	orders    map[string]domain.Order
	items     map[string][]domain.OrderItem
	inventory map[string]domain.InventoryItem
	customers map[string]domain.Customer
}

// NewStore возвращает пустое in-memory хранилище.
func NewStore() *Store {
	return &Store{
		orders:    make(map[string]domain.Order),
		items:     make(map[string][]domain.OrderItem),
		inventory: make(map[string]domain.InventoryItem),
		customers: make(map[string]domain.Customer),
	}
}

// WithinTx выполняет fn над копией данных и фиксирует её только при
// успешном возврате. Глобальный мьютекс сериализует транзакции, что даёт
// требуемую изоляцию read-modify-write по строкам каталога.
func (s *Store) WithinTx(_ context.Context, fn func(tx domain.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{
		orders:    cloneOrders(s.orders),
		items:     cloneItems(s.items),
		inventory: cloneInventory(s.inventory),
	}

	if err := fn(tx); err != nil {
		return err
	}

	s.orders = tx.orders
	s.items = tx.items
	s.inventory = tx.inventory
	return nil
}

// memTx держит рабочую копию данных одной транзакции.
type memTx struct {
	orders    map[string]domain.Order
	items     map[string][]domain.OrderItem
	inventory map[string]domain.InventoryItem
}

func (t *memTx) Orders() domain.OrderStore         { return t }
func (t *memTx) Inventory() domain.InventoryLedger { return t }

func (t *memTx) InsertOrder(_ context.Context, order domain.Order) error {
	order.Items = nil
	t.orders[order.ID] = order
	return nil
}

func (t *memTx) UpdateOrder(_ context.Context, order domain.Order) error {
	current, ok := t.orders[order.ID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	order.Items = nil
	order.CreatedAt = current.CreatedAt
	t.orders[order.ID] = order
	return nil
}

func (t *memTx) DeleteOrder(_ context.Context, id string) error {
	delete(t.orders, id)
	return nil
}

func (t *memTx) InsertItem(_ context.Context, item domain.OrderItem) error {
	t.items[item.OrderID] = append(t.items[item.OrderID], item)
	return nil
}

func (t *memTx) DeleteItems(_ context.Context, orderID string) error {
	delete(t.items, orderID)
	return nil
}

func (t *memTx) GetItems(_ context.Context, orderID string) ([]domain.OrderItem, error) {
	return append([]domain.OrderItem(nil), t.items[orderID]...), nil
}

func (t *memTx) Decrement(_ context.Context, productID string, qty int32) (domain.InventoryItem, error) {
	return t.adjust(productID, qty, domain.StockDecrement)
}

func (t *memTx) Increment(_ context.Context, productID string, qty int32) (domain.InventoryItem, error) {
	return t.adjust(productID, qty, domain.StockIncrement)
}

func (t *memTx) adjust(productID string, qty int32, dir domain.StockDirection) (domain.InventoryItem, error) {
	item, ok := t.inventory[productID]
	if !ok {
		return domain.InventoryItem{}, domain.ErrProductNotFound
	}
	item.Status, item.Quantity = domain.NextStock(item.Status, item.Quantity, qty, dir)
	item.LastUpdated = time.Now().UTC()
	t.inventory[productID] = item
	return item, nil
}

// Get возвращает заказ с позициями.
func (s *Store) Get(_ context.Context, id string) (domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	order.Items = append([]domain.OrderItem(nil), s.items[id]...)
	return order, nil
}

// List возвращает заказы с именем клиента, без позиций. Сортировка:
// дата заказа по убыванию, при равенстве — порядок создания.
func (s *Store) List(_ context.Context) ([]domain.OrderSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.OrderSummary, 0, len(s.orders))
	for _, order := range s.orders {
		customer, ok := s.customers[order.CustomerID]
		if !ok {
			// JOIN-семантика: заказы без клиента в списке не участвуют.
			continue
		}
		result = append(result, domain.OrderSummary{Order: order, CustomerName: customer.Name})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].OrderDate != result[j].OrderDate {
			return result[i].OrderDate > result[j].OrderDate
		}
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

// CreateInventory добавляет позицию каталога.
func (s *Store) CreateInventory(_ context.Context, item domain.InventoryItem) (domain.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item.LastUpdated = time.Now().UTC()
	s.inventory[item.ID] = item
	return item, nil
}

// GetInventory возвращает позицию каталога или ErrProductNotFound.
func (s *Store) GetInventory(_ context.Context, id string) (domain.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.inventory[id]
	if !ok {
		return domain.InventoryItem{}, domain.ErrProductNotFound
	}
	return item, nil
}

// ListInventory возвращает каталог, отсортированный по имени.
func (s *Store) ListInventory(_ context.Context) ([]domain.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.InventoryItem, 0, len(s.inventory))
	for _, item := range s.inventory {
		result = append(result, item)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// UpdateInventory перезаписывает позицию каталога. Прямое изменение
// количества статус не пересчитывает.
func (s *Store) UpdateInventory(_ context.Context, item domain.InventoryItem) (domain.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.inventory[item.ID]; !ok {
		return domain.InventoryItem{}, domain.ErrProductNotFound
	}
	item.LastUpdated = time.Now().UTC()
	s.inventory[item.ID] = item
	return item, nil
}

// DeleteInventory удаляет позицию каталога.
func (s *Store) DeleteInventory(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.inventory[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(s.inventory, id)
	return nil
}

// CreateCustomer добавляет клиента.
func (s *Store) CreateCustomer(_ context.Context, customer domain.Customer) (domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.customers[customer.ID] = customer
	return customer, nil
}

// GetCustomer возвращает клиента с агрегатами по заказам.
func (s *Store) GetCustomer(_ context.Context, id string) (domain.CustomerSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	customer, ok := s.customers[id]
	if !ok {
		return domain.CustomerSummary{}, domain.ErrCustomerNotFound
	}
	return s.summarize(customer), nil
}

// ListCustomers возвращает клиентов с агрегатами, по имени.
func (s *Store) ListCustomers(_ context.Context) ([]domain.CustomerSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.CustomerSummary, 0, len(s.customers))
	for _, customer := range s.customers {
		result = append(result, s.summarize(customer))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// UpdateCustomer перезаписывает клиента.
func (s *Store) UpdateCustomer(_ context.Context, customer domain.Customer) (domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers[customer.ID]; !ok {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	s.customers[customer.ID] = customer
	return customer, nil
}

// DeleteCustomer удаляет клиента.
func (s *Store) DeleteCustomer(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers[id]; !ok {
		return domain.ErrCustomerNotFound
	}
	delete(s.customers, id)
	return nil
}

func (s *Store) summarize(customer domain.Customer) domain.CustomerSummary {
	summary := domain.CustomerSummary{Customer: customer}
	for _, order := range s.orders {
		if order.CustomerID == customer.ID {
			summary.TotalOrders++
			summary.TotalSpent += order.TotalAmount
		}
	}
	return summary
}

func cloneOrders(src map[string]domain.Order) map[string]domain.Order {
	dst := make(map[string]domain.Order, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func cloneItems(src map[string][]domain.OrderItem) map[string][]domain.OrderItem {
	dst := make(map[string][]domain.OrderItem, len(src))
	for k, v := range src {
		dst[k] = append([]domain.OrderItem(nil), v...)
	}
	return dst
}

func cloneInventory(src map[string]domain.InventoryItem) map[string]domain.InventoryItem {
	dst := make(map[string]domain.InventoryItem, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// Catalog отдаёт CRUD-обёртку каталога поверх хранилища.
func (s *Store) Catalog() domain.InventoryRepository { return inventoryCatalog{s} }

// Customers отдаёт CRUD-обёртку клиентов поверх хранилища.
func (s *Store) Customers() domain.CustomerRepository { return customerBook{s} }

type inventoryCatalog struct{ s *Store }

func (c inventoryCatalog) Create(ctx context.Context, item domain.InventoryItem) (domain.InventoryItem, error) {
	return c.s.CreateInventory(ctx, item)
}

func (c inventoryCatalog) Get(ctx context.Context, id string) (domain.InventoryItem, error) {
	return c.s.GetInventory(ctx, id)
}

func (c inventoryCatalog) List(ctx context.Context) ([]domain.InventoryItem, error) {
	return c.s.ListInventory(ctx)
}

func (c inventoryCatalog) Update(ctx context.Context, item domain.InventoryItem) (domain.InventoryItem, error) {
	return c.s.UpdateInventory(ctx, item)
}

func (c inventoryCatalog) Delete(ctx context.Context, id string) error {
	return c.s.DeleteInventory(ctx, id)
}

type customerBook struct{ s *Store }

func (c customerBook) Create(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	return c.s.CreateCustomer(ctx, customer)
}

func (c customerBook) Get(ctx context.Context, id string) (domain.CustomerSummary, error) {
	return c.s.GetCustomer(ctx, id)
}

func (c customerBook) List(ctx context.Context) ([]domain.CustomerSummary, error) {
	return c.s.ListCustomers(ctx)
}

func (c customerBook) Update(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	return c.s.UpdateCustomer(ctx, customer)
}

func (c customerBook) Delete(ctx context.Context, id string) error {
	return c.s.DeleteCustomer(ctx, id)
}

var (
	_ domain.UnitOfWork          = (*Store)(nil)
	_ domain.OrderReader         = (*Store)(nil)
	_ domain.Tx                  = (*memTx)(nil)
	_ domain.OrderStore          = (*memTx)(nil)
	_ domain.InventoryLedger     = (*memTx)(nil)
	_ domain.InventoryRepository = (inventoryCatalog{})
	_ domain.CustomerRepository  = (customerBook{})
)
