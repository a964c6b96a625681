package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/wms/internal/domain"
	"github.com/vladislavdragonenkov/wms/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/wms/internal/metrics"
)

// ItemInput — позиция заказа, как её присылает клиент.
type ItemInput struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int32   `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalPrice  float64 `json:"total_price"`
}

// OrderInput — шапка заказа, как её присылает клиент.
type OrderInput struct {
	CustomerID    string  `json:"customer_id"`
	OrderDate     string  `json:"order_date"`
	Status        string  `json:"status"`
	TotalAmount   float64 `json:"total_amount"`
	DeliveryDate  string  `json:"delivery_date"`
	PaymentStatus string  `json:"payment_status"`
	Notes         string  `json:"notes"`
}

// EventPublisher публикует доменные события наружу; ошибки публикации не
// прерывают операцию заказа.
type EventPublisher interface {
	PublishEvent(topic string, key string, event interface{}) error
}

// Service — оркестратор транзакции заказа. Единственный компонент с
// кросс-сущностными инвариантами: каждая операция выполняется как одна
// атомарная единица работы над хранилищем заказов и складским леджером.
type Service struct {
	uow       domain.UnitOfWork
	reader    domain.OrderReader
	publisher EventPublisher
	logger    *log.Entry
	metrics   *metrics.OrderMetrics
}

// NewService создаёт рабочий экземпляр оркестратора.
func NewService(uow domain.UnitOfWork, reader domain.OrderReader, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "orders")
	}
	return &Service{
		uow:     uow,
		reader:  reader,
		logger:  logger,
		metrics: metrics.NewOrderMetrics(),
	}
}

// NewServiceWithEvents создаёт оркестратор с публикацией событий в Kafka.
func NewServiceWithEvents(uow domain.UnitOfWork, reader domain.OrderReader, publisher EventPublisher, logger *log.Entry) *Service {
	svc := NewService(uow, reader, logger)
	svc.publisher = publisher
	return svc
}

// NewServiceWithoutMetrics создаёт оркестратор без метрик (для тестов).
func NewServiceWithoutMetrics(uow domain.UnitOfWork, reader domain.OrderReader, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "orders")
	}
	return &Service{
		uow:    uow,
		reader: reader,
		logger: logger,
	}
}

// Create создаёт заказ вместе с позициями и списывает запас по каждой
// позиции в одной транзакции. При любой ошибке не остаётся ни шапки,
// ни позиций, ни изменений склада.
func (s *Service) Create(ctx context.Context, header OrderInput, items []ItemInput) (domain.Order, error) {
	order := buildOrder(header)
	errs := order.ValidateHeader()
	if len(items) == 0 {
		errs = append(errs, domain.ErrItemsRequired)
	}
	if err := domain.NewValidationError(errs); err != nil {
		return domain.Order{}, err
	}

	order.ID = uuid.NewString()
	order.CreatedAt = time.Now().UTC()

	var touched []domain.InventoryItem
	err := s.runTx(ctx, func(tx domain.Tx) error {
		if err := tx.Orders().InsertOrder(ctx, order); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		stock, err := s.insertItems(ctx, tx, order.ID, items)
		if err != nil {
			return err
		}
		touched = stock
		return nil
	})
	if err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Error("create order failed")
		return domain.Order{}, err
	}

	created, err := s.reader.Get(ctx, order.ID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("reload created order: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordOrderCreated()
	}
	s.publishOrderEvent(kafka.EventTypeOrderCreated, created)
	s.publishStockAlerts(touched)

	return created, nil
}

// Update обновляет шапку заказа; если передан новый набор позиций,
// складской эффект старых позиций полностью отменяется до применения
// новых. items == nil оставляет позиции и склад нетронутыми.
func (s *Service) Update(ctx context.Context, id string, header OrderInput, items *[]ItemInput) (domain.Order, error) {
	order := buildOrder(header)
	if err := domain.NewValidationError(order.ValidateHeader()); err != nil {
		return domain.Order{}, err
	}

	// Существование проверяется до любых мутаций.
	if _, err := s.reader.Get(ctx, id); err != nil {
		return domain.Order{}, err
	}
	order.ID = id

	var touched []domain.InventoryItem
	err := s.runTx(ctx, func(tx domain.Tx) error {
		if err := tx.Orders().UpdateOrder(ctx, order); err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		if items == nil {
			return nil
		}

		if err := s.reverseItems(ctx, tx, id); err != nil {
			return err
		}
		if err := tx.Orders().DeleteItems(ctx, id); err != nil {
			return fmt.Errorf("delete order items: %w", err)
		}
		stock, err := s.insertItems(ctx, tx, id, *items)
		if err != nil {
			return err
		}
		touched = stock
		return nil
	})
	if err != nil {
		s.logger.WithError(err).WithField("order_id", id).Error("update order failed")
		return domain.Order{}, err
	}

	updated, err := s.reader.Get(ctx, id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("reload updated order: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordOrderUpdated()
	}
	s.publishOrderEvent(kafka.EventTypeOrderUpdated, updated)
	s.publishStockAlerts(touched)

	return updated, nil
}

// Delete удаляет заказ, вернув запас по каждой его позиции. Удаление
// несуществующего идентификатора — no-op с успешным исходом.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.runTx(ctx, func(tx domain.Tx) error {
		if err := s.reverseItems(ctx, tx, id); err != nil {
			return err
		}
		if err := tx.Orders().DeleteItems(ctx, id); err != nil {
			return fmt.Errorf("delete order items: %w", err)
		}
		if err := tx.Orders().DeleteOrder(ctx, id); err != nil {
			return fmt.Errorf("delete order: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.WithError(err).WithField("order_id", id).Error("delete order failed")
		return err
	}

	if s.metrics != nil {
		s.metrics.RecordOrderDeleted()
	}
	if s.publisher != nil {
		event := kafka.NewOrderEvent(kafka.EventTypeOrderDeleted, id, "", 0)
		if err := s.publisher.PublishEvent(kafka.TopicOrderEvents, id, event); err != nil {
			s.logger.WithError(err).WithField("order_id", id).Warn("failed to publish order event")
		}
	}

	return nil
}

// Get возвращает заказ с позициями.
func (s *Service) Get(ctx context.Context, id string) (domain.Order, error) {
	return s.reader.Get(ctx, id)
}

// List возвращает заказы с именем клиента, без позиций.
func (s *Service) List(ctx context.Context) ([]domain.OrderSummary, error) {
	return s.reader.List(ctx)
}

// runTx выполняет fn в одной единице работы и снимает метрики.
func (s *Service) runTx(ctx context.Context, fn func(tx domain.Tx) error) error {
	start := time.Now()
	err := s.uow.WithinTx(ctx, fn)
	if s.metrics != nil {
		s.metrics.RecordTxDuration(time.Since(start))
		if err != nil {
			s.metrics.RecordTxRollback()
		}
	}
	return err
}

// insertItems вставляет позиции в порядке запроса и списывает запас по
// каждой. Возвращает складские строки после списания.
func (s *Service) insertItems(ctx context.Context, tx domain.Tx, orderID string, items []ItemInput) ([]domain.InventoryItem, error) {
	touched := make([]domain.InventoryItem, 0, len(items))
	for idx, in := range items {
		item := domain.OrderItem{
			ID:          uuid.NewString(),
			OrderID:     orderID,
			ProductID:   in.ProductID,
			ProductName: in.ProductName,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			TotalPrice:  in.TotalPrice,
			Position:    int32(idx + 1),
		}
		if err := tx.Orders().InsertItem(ctx, item); err != nil {
			return nil, fmt.Errorf("insert order item: %w", err)
		}
		stock, err := tx.Inventory().Decrement(ctx, in.ProductID, in.Quantity)
		if err != nil {
			return nil, fmt.Errorf("decrement stock for %s: %w", in.ProductID, err)
		}
		touched = append(touched, stock)
	}
	return touched, nil
}

// reverseItems отменяет складской эффект текущих позиций заказа.
func (s *Service) reverseItems(ctx context.Context, tx domain.Tx, orderID string) error {
	current, err := tx.Orders().GetItems(ctx, orderID)
	if err != nil {
		return fmt.Errorf("load order items: %w", err)
	}
	for _, item := range current {
		if _, err := tx.Inventory().Increment(ctx, item.ProductID, item.Quantity); err != nil {
			return fmt.Errorf("increment stock for %s: %w", item.ProductID, err)
		}
	}
	return nil
}

func (s *Service) publishOrderEvent(eventType kafka.EventType, order domain.Order) {
	if s.publisher == nil {
		return
	}
	event := kafka.NewOrderEvent(eventType, order.ID, order.CustomerID, order.TotalAmount)
	if err := s.publisher.PublishEvent(kafka.TopicOrderEvents, order.ID, event); err != nil {
		// Ошибка публикации не откатывает уже зафиксированный заказ.
		s.logger.WithError(err).WithFields(log.Fields{
			"event_type": eventType,
			"order_id":   order.ID,
		}).Warn("failed to publish order event")
	}
}

// publishStockAlerts рассылает события по позициям, чей статус после
// списания оказался деградировавшим.
func (s *Service) publishStockAlerts(touched []domain.InventoryItem) {
	for _, item := range touched {
		var eventType kafka.EventType
		switch item.Status {
		case domain.StockLowStock:
			eventType = kafka.EventTypeStockLow
		case domain.StockOutOfStock:
			eventType = kafka.EventTypeStockDepleted
		default:
			continue
		}

		if s.metrics != nil {
			s.metrics.RecordStockAlert(string(item.Status))
		}
		if s.publisher == nil {
			continue
		}
		event := kafka.NewStockEvent(eventType, item.ID, item.Name, item.Quantity, string(item.Status))
		if err := s.publisher.PublishEvent(kafka.TopicStockEvents, item.ID, event); err != nil {
			s.logger.WithError(err).WithFields(log.Fields{
				"event_type": eventType,
				"product_id": item.ID,
			}).Warn("failed to publish stock event")
		}
	}
}

func buildOrder(header OrderInput) domain.Order {
	paymentStatus := header.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = domain.PaymentStatusDefault
	}
	return domain.Order{
		CustomerID:    header.CustomerID,
		OrderDate:     header.OrderDate,
		Status:        header.Status,
		TotalAmount:   header.TotalAmount,
		DeliveryDate:  header.DeliveryDate,
		PaymentStatus: paymentStatus,
		Notes:         header.Notes,
	}
}
