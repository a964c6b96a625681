package domain

import (
	"errors"
	"strings"
)

var (
	// Ошибка отсутствующего идентификатора клиента.
	ErrCustomerRequired = errors.New("customer_id is required")
	// Ошибка отсутствующей даты заказа.
	ErrOrderDateRequired = errors.New("order_date is required")
	// Ошибка отсутствующего статуса заказа.
	ErrOrderStatusRequired = errors.New("status is required")
	// Ошибка отсутствующей суммы заказа.
	ErrTotalAmountRequired = errors.New("total_amount is required")
	// Ошибка отсутствия хотя бы одной позиции в заказе.
	ErrItemsRequired = errors.New("order must contain at least one item")
	// Ошибка отсутствующего имени позиции каталога.
	ErrInventoryNameRequired = errors.New("name is required")
	// Ошибка отсутствующего типа позиции каталога.
	ErrInventoryTypeRequired = errors.New("type is required")
	// Ошибка отсутствующего количества позиции каталога.
	ErrInventoryQuantityRequired = errors.New("quantity is required")
	// Ошибка отсутствующей единицы измерения.
	ErrInventoryUnitRequired = errors.New("unit is required")
	// Ошибка отсутствующего складского статуса.
	ErrInventoryStatusRequired = errors.New("status is required")
	// Ошибка отсутствующего имени клиента.
	ErrCustomerNameRequired = errors.New("name is required")
	// Ошибка отсутствующего email клиента.
	ErrCustomerEmailRequired = errors.New("email is required")

	// ErrOrderNotFound возвращается, если заказ не найден в хранилище.
	ErrOrderNotFound = errors.New("order not found")
	// ErrProductNotFound возвращается леджером для неизвестной позиции каталога.
	ErrProductNotFound = errors.New("inventory item not found")
	// ErrCustomerNotFound возвращается, если клиент не найден.
	ErrCustomerNotFound = errors.New("customer not found")
)

// ValidationError агрегирует нарушения обязательных полей запроса.
// Валидация выполняется до открытия транзакции и не требует отката.
type ValidationError struct {
	Errs []error
}

// NewValidationError оборачивает список нарушений; возвращает nil, если их нет.
func NewValidationError(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Errs: errs}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errs))
	for _, err := range e.Errs {
		parts = append(parts, err.Error())
	}
	return strings.Join(parts, "; ")
}

// Unwrap отдаёт вложенные ошибки для errors.Is/As.
func (e *ValidationError) Unwrap() []error {
	return e.Errs
}

// IsValidation проверяет, является ли ошибка ошибкой валидации.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound проверяет, относится ли ошибка к отсутствующей сущности.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrCustomerNotFound)
}
