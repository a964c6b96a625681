package kafka

import "time"

// EventType определяет тип события
type EventType string

const (
	// События заказов
	EventTypeOrderCreated EventType = "order.created"
	EventTypeOrderUpdated EventType = "order.updated"
	EventTypeOrderDeleted EventType = "order.deleted"

	// События склада
	EventTypeStockLow      EventType = "stock.low"
	EventTypeStockDepleted EventType = "stock.depleted"
)

// Topics для Kafka
const (
	TopicOrderEvents = "wms.order.events"
	TopicStockEvents = "wms.stock.events"
)

// OrderEvent представляет событие жизненного цикла заказа
type OrderEvent struct {
	EventType   EventType              `json:"event_type"`
	OrderID     string                 `json:"order_id"`
	CustomerID  string                 `json:"customer_id,omitempty"`
	TotalAmount float64                `json:"total_amount,omitempty"`
	Timestamp   time.Time              `json:"timestamp"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// StockEvent сигнализирует о деградации складского статуса после списания
type StockEvent struct {
	EventType EventType `json:"event_type"`
	ProductID string    `json:"product_id"`
	Name      string    `json:"name,omitempty"`
	Quantity  int32     `json:"quantity"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// NewOrderEvent создает новое событие заказа
func NewOrderEvent(eventType EventType, orderID, customerID string, totalAmount float64) *OrderEvent {
	return &OrderEvent{
		EventType:   eventType,
		OrderID:     orderID,
		CustomerID:  customerID,
		TotalAmount: totalAmount,
		Timestamp:   time.Now(),
	}
}

// NewStockEvent создает новое событие склада
func NewStockEvent(eventType EventType, productID, name string, quantity int32, status string) *StockEvent {
	return &StockEvent{
		EventType: eventType,
		ProductID: productID,
		Name:      name,
		Quantity:  quantity,
		Status:    status,
		Timestamp: time.Now(),
	}
}
