package domain

import "time"

// StockStatus описывает складской статус позиции каталога.
type StockStatus string

const (
	// StockInStock — запаса достаточно.
	StockInStock StockStatus = "in_stock"
	// StockLowStock — запас ниже порога пополнения.
	StockLowStock StockStatus = "low_stock"
	// StockOutOfStock — запас исчерпан.
	StockOutOfStock StockStatus = "out_of_stock"
)

// StockDirection задаёт направление изменения запаса.
type StockDirection string

const (
	StockDecrement StockDirection = "decrement"
	StockIncrement StockDirection = "increment"
)

// lowStockThreshold — порог, ниже которого запас считается низким.
const lowStockThreshold = 10

// InventoryItem представляет позицию складского каталога.
// Quantity и Status меняются только через леджер внутри транзакции заказа;
// прямое редактирование количества через каталог не пересчитывает статус.
type InventoryItem struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	Quantity    int32       `json:"quantity"`
	Unit        string      `json:"unit"`
	Price       float64     `json:"price"`
	Location    string      `json:"location,omitempty"`
	Status      StockStatus `json:"status"`
	Description string      `json:"description,omitempty"`
	Image       string      `json:"image,omitempty"`
	LastUpdated time.Time   `json:"last_updated"`
}

// NextStock вычисляет новое количество и статус после изменения запаса.
// Переходы намеренно асимметричны: списание оценивает пороги по новому
// количеству, а приход лишь "лечит" ранее деградировавший статус и никогда
// не понижает его. out_of_stock после прихода поднимается только до
// low_stock, даже если итоговое количество велико.
func NextStock(status StockStatus, qty, delta int32, dir StockDirection) (StockStatus, int32) {
	switch dir {
	case StockDecrement:
		newQty := qty - delta
		switch {
		case newQty <= 0:
			return StockOutOfStock, newQty
		case newQty < lowStockThreshold:
			return StockLowStock, newQty
		default:
			return status, newQty
		}
	case StockIncrement:
		newQty := qty + delta
		switch {
		case status == StockOutOfStock && newQty > 0:
			return StockLowStock, newQty
		case status == StockLowStock && newQty >= lowStockThreshold:
			return StockInStock, newQty
		default:
			return status, newQty
		}
	default:
		return status, qty
	}
}

// ValidateInvariants проверяет обязательные поля позиции каталога.
func (i *InventoryItem) ValidateInvariants() []error {
	var errs []error

	if i.Name == "" {
		errs = append(errs, ErrInventoryNameRequired)
	}
	if i.Type == "" {
		errs = append(errs, ErrInventoryTypeRequired)
	}
	if i.Quantity == 0 {
		errs = append(errs, ErrInventoryQuantityRequired)
	}
	if i.Unit == "" {
		errs = append(errs, ErrInventoryUnitRequired)
	}
	if i.Status == "" {
		errs = append(errs, ErrInventoryStatusRequired)
	}

	return errs
}
