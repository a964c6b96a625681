package domain

import "testing"

func TestNextStock_Decrement(t *testing.T) {
	cases := []struct {
		name       string
		status     StockStatus
		qty, delta int32
		wantStatus StockStatus
		wantQty    int32
	}{
		{"healthy stays in_stock", StockInStock, 50, 10, StockInStock, 40},
		{"crosses low threshold", StockInStock, 12, 3, StockLowStock, 9},
		{"exactly threshold stays", StockInStock, 20, 10, StockInStock, 10},
		{"to zero", StockLowStock, 2, 2, StockOutOfStock, 0},
		{"below zero allowed", StockLowStock, 1, 5, StockOutOfStock, -4},
		{"low stays low", StockLowStock, 8, 3, StockLowStock, 5},
		{"manual in_stock not re-derived", StockInStock, 5, 1, StockLowStock, 4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, qty := NextStock(tc.status, tc.qty, tc.delta, StockDecrement)
			if status != tc.wantStatus || qty != tc.wantQty {
				t.Fatalf("got (%s, %d), want (%s, %d)", status, qty, tc.wantStatus, tc.wantQty)
			}
		})
	}
}

func TestNextStock_Increment(t *testing.T) {
	cases := []struct {
		name       string
		status     StockStatus
		qty, delta int32
		wantStatus StockStatus
		wantQty    int32
	}{
		{"out_of_stock heals to low only", StockOutOfStock, 0, 100, StockLowStock, 100},
		{"out_of_stock small return", StockOutOfStock, 0, 2, StockLowStock, 2},
		{"low heals to in_stock at threshold", StockLowStock, 8, 2, StockInStock, 10},
		{"low below threshold stays", StockLowStock, 5, 2, StockLowStock, 7},
		{"in_stock never downgraded", StockInStock, 4, 1, StockInStock, 5},
		{"negative qty still out", StockOutOfStock, -4, 2, StockOutOfStock, -2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, qty := NextStock(tc.status, tc.qty, tc.delta, StockIncrement)
			if status != tc.wantStatus || qty != tc.wantQty {
				t.Fatalf("got (%s, %d), want (%s, %d)", status, qty, tc.wantStatus, tc.wantQty)
			}
		})
	}
}

// Приход и списание не образуют симметричную пару: после round-trip
// количество совпадает, статус — нет.
func TestNextStock_RoundTripAsymmetry(t *testing.T) {
	status, qty := NextStock(StockLowStock, 2, 2, StockDecrement)
	if status != StockOutOfStock || qty != 0 {
		t.Fatalf("decrement: got (%s, %d)", status, qty)
	}

	status, qty = NextStock(status, qty, 2, StockIncrement)
	if status != StockLowStock || qty != 2 {
		t.Fatalf("increment: got (%s, %d), want (low_stock, 2)", status, qty)
	}
}
