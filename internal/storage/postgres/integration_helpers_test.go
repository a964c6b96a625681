package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/wms/internal/domain"
)

const testDSNEnv = "WMS_POSTGRES_TEST_DSN"

// newTestStore подключается к тестовой базе или пропускает тест, если
// WMS_POSTGRES_TEST_DSN не задан. Схема накатывается заново перед тестом.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := os.Getenv(testDSNEnv)
	if dsn == "" {
		t.Skipf("skipping integration test: %s is not set", testDSNEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := Open(ctx, dsn)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	cleanupTables(t, store)
	t.Cleanup(func() { cleanupTables(t, store) })

	return store
}

func cleanupTables(t *testing.T, store *Store) {
	t.Helper()
	_, err := store.DB().ExecContext(context.Background(),
		`TRUNCATE order_items, orders, inventory, customers`)
	if err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

func insertTestCustomer(t *testing.T, store *Store, name string) domain.Customer {
	t.Helper()
	customer, err := store.CreateCustomer(context.Background(), domain.Customer{
		ID:    uuid.NewString(),
		Name:  name,
		Email: "test@lespromtorg.ru",
	})
	if err != nil {
		t.Fatalf("insert test customer: %v", err)
	}
	return customer
}

func insertTestProduct(t *testing.T, store *Store, qty int32, status domain.StockStatus) domain.InventoryItem {
	t.Helper()
	item, err := store.CreateInventory(context.Background(), domain.InventoryItem{
		ID:       uuid.NewString(),
		Name:     "Брус 100x100",
		Type:     "lumber",
		Quantity: qty,
		Unit:     "m3",
		Price:    8500,
		Status:   status,
	})
	if err != nil {
		t.Fatalf("insert test product: %v", err)
	}
	return item
}

func insertTestOrder(t *testing.T, store *Store, customerID string, orderDate string) domain.Order {
	t.Helper()
	order := domain.Order{
		ID:            uuid.NewString(),
		CustomerID:    customerID,
		OrderDate:     orderDate,
		Status:        "new",
		TotalAmount:   1000,
		PaymentStatus: domain.PaymentStatusDefault,
		CreatedAt:     time.Now().UTC(),
	}
	err := store.WithinTx(context.Background(), func(tx domain.Tx) error {
		return tx.Orders().InsertOrder(context.Background(), order)
	})
	if err != nil {
		t.Fatalf("insert test order: %v", err)
	}
	return order
}
