package orders

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/wms/internal/domain"
	"github.com/vladislavdragonenkov/wms/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/wms/internal/storage/memory"
)

type capturedEvent struct {
	topic string
	key   string
	event interface{}
}

type capturePublisher struct {
	events []capturedEvent
	err    error
}

func (p *capturePublisher) PublishEvent(topic string, key string, event interface{}) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, capturedEvent{topic: topic, key: key, event: event})
	return nil
}

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return NewServiceWithoutMetrics(store, store, nil), store
}

func seedProduct(t *testing.T, store *memory.Store, id string, qty int32, status domain.StockStatus) {
	t.Helper()
	_, err := store.CreateInventory(context.Background(), domain.InventoryItem{
		ID:       id,
		Name:     "Доска обрезная 50x150",
		Type:     "lumber",
		Quantity: qty,
		Unit:     "m3",
		Status:   status,
	})
	require.NoError(t, err)
}

func seedCustomer(t *testing.T, store *memory.Store, id, name string) {
	t.Helper()
	_, err := store.CreateCustomer(context.Background(), domain.Customer{
		ID:    id,
		Name:  name,
		Email: "zakaz@lespromtorg.ru",
	})
	require.NoError(t, err)
}

func validHeader() OrderInput {
	return OrderInput{
		CustomerID:  "cust-1",
		OrderDate:   "2025-03-10",
		Status:      "new",
		TotalAmount: 4500,
	}
}

func TestCreateDecrementsStock(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	seedCustomer(t, store, "cust-1", "Леспромторг")
	seedProduct(t, store, "prod-1", 12, domain.StockInStock)

	order, err := svc.Create(ctx, validHeader(), []ItemInput{
		{ProductID: "prod-1", ProductName: "Доска обрезная 50x150", Quantity: 3, UnitPrice: 1500, TotalPrice: 4500},
	})
	require.NoError(t, err)
	require.NotEmpty(t, order.ID)
	require.Equal(t, domain.PaymentStatusDefault, order.PaymentStatus)
	require.Len(t, order.Items, 1)
	require.Equal(t, int32(3), order.Items[0].Quantity)

	// 12 - 3 = 9, ниже порога: статус деградирует до low_stock.
	stock, err := store.GetInventory(ctx, "prod-1")
	require.NoError(t, err)
	require.Equal(t, int32(9), stock.Quantity)
	require.Equal(t, domain.StockLowStock, stock.Status)
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, OrderInput{}, nil)
	require.Error(t, err)
	require.True(t, domain.IsValidation(err))
	require.ErrorIs(t, err, domain.ErrCustomerRequired)
	require.ErrorIs(t, err, domain.ErrItemsRequired)
}

func TestCreateRollsBackOnUnknownProduct(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	seedCustomer(t, store, "cust-1", "Леспромторг")
	seedProduct(t, store, "prod-1", 20, domain.StockInStock)

	// Вторая позиция ссылается на несуществующий товар: вся транзакция
	// откатывается, включая уже применённое списание первой позиции.
	_, err := svc.Create(ctx, validHeader(), []ItemInput{
		{ProductID: "prod-1", Quantity: 5},
		{ProductID: "missing", Quantity: 1},
	})
	require.ErrorIs(t, err, domain.ErrProductNotFound)

	stock, err := store.GetInventory(ctx, "prod-1")
	require.NoError(t, err)
	require.Equal(t, int32(20), stock.Quantity)
	require.Equal(t, domain.StockInStock, stock.Status)

	orders, err := store.List(ctx)
	require.NoError(t, err)
	require.Empty(t, orders)
}

func TestConcurrentCreatesDoNotLoseStock(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	seedCustomer(t, store, "cust-1", "Леспромторг")
	seedProduct(t, store, "prod-1", 100, domain.StockInStock)

	const workers = 10
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.Create(ctx, validHeader(), []ItemInput{
				{ProductID: "prod-1", Quantity: 3},
			})
			if err != nil {
				t.Errorf("create: %v", err)
			}
		}()
	}
	wg.Wait()

	// Каждое списание применено ровно один раз: 100 - 10*3 = 70.
	stock, err := store.GetInventory(ctx, "prod-1")
	require.NoError(t, err)
	require.Equal(t, int32(70), stock.Quantity)
	require.Equal(t, domain.StockInStock, stock.Status)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, workers)
}

func TestDeleteRestoresStock(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	seedCustomer(t, store, "cust-1", "Леспромторг")
	seedProduct(t, store, "prod-1", 2, domain.StockLowStock)

	order, err := svc.Create(ctx, validHeader(), []ItemInput{
		{ProductID: "prod-1", Quantity: 2},
	})
	require.NoError(t, err)

	// 2 - 2 = 0: товар исчерпан.
	stock, err := store.GetInventory(ctx, "prod-1")
	require.NoError(t, err)
	require.Equal(t, int32(0), stock.Quantity)
	require.Equal(t, domain.StockOutOfStock, stock.Status)

	require.NoError(t, svc.Delete(ctx, order.ID))

	// Возврат 2 единиц лечит out_of_stock только до low_stock:
	// количество всё ещё ниже порога.
	stock, err = store.GetInventory(ctx, "prod-1")
	require.NoError(t, err)
	require.Equal(t, int32(2), stock.Quantity)
	require.Equal(t, domain.StockLowStock, stock.Status)

	_, err = svc.Get(ctx, order.ID)
	require.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestDeleteUnknownOrderIsNoop(t *testing.T) {
	svc, _ := newTestService(t)
	require.NoError(t, svc.Delete(context.Background(), "no-such-order"))
}

func TestUpdateWithoutItemsLeavesStock(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	seedCustomer(t, store, "cust-1", "Леспромторг")
	seedProduct(t, store, "prod-1", 50, domain.StockInStock)

	order, err := svc.Create(ctx, validHeader(), []ItemInput{
		{ProductID: "prod-1", Quantity: 5},
	})
	require.NoError(t, err)

	header := validHeader()
	header.Status = "shipped"
	updated, err := svc.Update(ctx, order.ID, header, nil)
	require.NoError(t, err)
	require.Equal(t, "shipped", updated.Status)
	require.Len(t, updated.Items, 1)

	stock, err := store.GetInventory(ctx, "prod-1")
	require.NoError(t, err)
	require.Equal(t, int32(45), stock.Quantity)
}

func TestUpdateReplacesItems(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	seedCustomer(t, store, "cust-1", "Леспромторг")
	seedProduct(t, store, "prod-1", 50, domain.StockInStock)
	seedProduct(t, store, "prod-2", 30, domain.StockInStock)

	order, err := svc.Create(ctx, validHeader(), []ItemInput{
		{ProductID: "prod-1", Quantity: 5},
	})
	require.NoError(t, err)

	newItems := []ItemInput{{ProductID: "prod-2", Quantity: 4}}
	updated, err := svc.Update(ctx, order.ID, validHeader(), &newItems)
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)
	require.Equal(t, "prod-2", updated.Items[0].ProductID)

	// Старое списание отменено, новое применено.
	stock, err := store.GetInventory(ctx, "prod-1")
	require.NoError(t, err)
	require.Equal(t, int32(50), stock.Quantity)

	stock, err = store.GetInventory(ctx, "prod-2")
	require.NoError(t, err)
	require.Equal(t, int32(26), stock.Quantity)
}

func TestUpdateSameItemsIsQuantityNoop(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	seedCustomer(t, store, "cust-1", "Леспромторг")
	seedProduct(t, store, "prod-1", 50, domain.StockInStock)

	items := []ItemInput{{ProductID: "prod-1", Quantity: 5}}
	order, err := svc.Create(ctx, validHeader(), items)
	require.NoError(t, err)

	_, err = svc.Update(ctx, order.ID, validHeader(), &items)
	require.NoError(t, err)

	stock, err := store.GetInventory(ctx, "prod-1")
	require.NoError(t, err)
	require.Equal(t, int32(45), stock.Quantity)
}

func TestUpdateUnknownOrder(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Update(context.Background(), "no-such-order", validHeader(), nil)
	require.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestGetReturnsItemsInSubmissionOrder(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	seedCustomer(t, store, "cust-1", "Леспромторг")
	seedProduct(t, store, "prod-1", 100, domain.StockInStock)
	seedProduct(t, store, "prod-2", 100, domain.StockInStock)
	seedProduct(t, store, "prod-3", 100, domain.StockInStock)

	order, err := svc.Create(ctx, validHeader(), []ItemInput{
		{ProductID: "prod-2", Quantity: 1},
		{ProductID: "prod-3", Quantity: 2},
		{ProductID: "prod-1", Quantity: 3},
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 3)
	require.Equal(t, "prod-2", got.Items[0].ProductID)
	require.Equal(t, "prod-3", got.Items[1].ProductID)
	require.Equal(t, "prod-1", got.Items[2].ProductID)
}

func TestCreatePublishesEvents(t *testing.T) {
	store := memory.NewStore()
	publisher := &capturePublisher{}
	svc := NewServiceWithoutMetrics(store, store, nil)
	svc.publisher = publisher
	ctx := context.Background()
	seedCustomer(t, store, "cust-1", "Леспромторг")
	seedProduct(t, store, "prod-1", 12, domain.StockInStock)

	order, err := svc.Create(ctx, validHeader(), []ItemInput{
		{ProductID: "prod-1", Quantity: 3},
	})
	require.NoError(t, err)

	// order.created плюс stock.low (12 -> 9 пересекает порог).
	require.Len(t, publisher.events, 2)

	orderEvent, ok := publisher.events[0].event.(*kafka.OrderEvent)
	require.True(t, ok)
	require.Equal(t, kafka.TopicOrderEvents, publisher.events[0].topic)
	require.Equal(t, kafka.EventTypeOrderCreated, orderEvent.EventType)
	require.Equal(t, order.ID, orderEvent.OrderID)

	stockEvent, ok := publisher.events[1].event.(*kafka.StockEvent)
	require.True(t, ok)
	require.Equal(t, kafka.TopicStockEvents, publisher.events[1].topic)
	require.Equal(t, kafka.EventTypeStockLow, stockEvent.EventType)
	require.Equal(t, int32(9), stockEvent.Quantity)
}

func TestPublishFailureDoesNotFailOperation(t *testing.T) {
	store := memory.NewStore()
	publisher := &capturePublisher{err: errors.New("broker unavailable")}
	svc := NewServiceWithoutMetrics(store, store, nil)
	svc.publisher = publisher
	ctx := context.Background()
	seedCustomer(t, store, "cust-1", "Леспромторг")
	seedProduct(t, store, "prod-1", 50, domain.StockInStock)

	order, err := svc.Create(ctx, validHeader(), []ItemInput{
		{ProductID: "prod-1", Quantity: 1},
	})
	require.NoError(t, err)
	require.NotEmpty(t, order.ID)
}
