package domain

import "time"

// PaymentStatusDefault присваивается заказу, если статус оплаты не передан.
const PaymentStatusDefault = "pending"

// OrderItem представляет одну позицию заказа. Поля товара (имя, цены)
// денормализованы на момент продажи и не отслеживают изменения каталога.
type OrderItem struct {
	// ID позиции нужен для однозначной идентификации строки.
	ID string `json:"id"`
	// OrderID — заказ-владелец.
	OrderID string `json:"order_id"`
	// ProductID — ссылка на позицию каталога.
	ProductID string `json:"product_id"`
	// ProductName — снимок названия товара на момент продажи.
	ProductName string `json:"product_name"`
	// Quantity — количество единиц товара.
	Quantity int32 `json:"quantity"`
	// UnitPrice — цена за единицу на момент продажи.
	UnitPrice float64 `json:"unit_price"`
	// TotalPrice — рассчитанная стоимость строки на момент продажи.
	TotalPrice float64 `json:"total_price"`
	// Position фиксирует порядок строк внутри заказа.
	Position int32 `json:"-"`
}

// Order агрегирует шапку заказа и его позиции.
type Order struct {
	ID            string      `json:"id"`
	CustomerID    string      `json:"customer_id"`
	OrderDate     string      `json:"order_date"`
	Status        string      `json:"status"`
	TotalAmount   float64     `json:"total_amount"`
	DeliveryDate  string      `json:"delivery_date,omitempty"`
	PaymentStatus string      `json:"payment_status"`
	Notes         string      `json:"notes,omitempty"`
	Items         []OrderItem `json:"items,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}

// OrderSummary — строка списка заказов с именем клиента; позиции не
// подтягиваются, их отдаёт только точечное чтение заказа.
type OrderSummary struct {
	Order
	CustomerName string `json:"customer_name"`
}

// ValidateHeader проверяет обязательные поля шапки заказа.
func (o *Order) ValidateHeader() []error {
	var errs []error

	if o.CustomerID == "" {
		errs = append(errs, ErrCustomerRequired)
	}
	if o.OrderDate == "" {
		errs = append(errs, ErrOrderDateRequired)
	}
	if o.Status == "" {
		errs = append(errs, ErrOrderStatusRequired)
	}
	if o.TotalAmount == 0 {
		errs = append(errs, ErrTotalAmountRequired)
	}

	return errs
}
