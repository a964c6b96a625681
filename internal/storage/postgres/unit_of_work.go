package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vladislavdragonenkov/wms/internal/domain"
)

// WithinTx выполняет fn в одной SQL-транзакции. Возврат ошибки или паника
// приводят к полному откату; фиксация только при nil-результате fn.
func (s *Store) WithinTx(ctx context.Context, fn func(tx domain.Tx) error) (err error) {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&pgTx{tx: sqlTx}); err != nil {
		_ = sqlTx.Rollback()
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// pgTx ограничивает видимость открытой транзакции портами домена.
type pgTx struct {
	tx *sql.Tx
}

func (t *pgTx) Orders() domain.OrderStore         { return &txOrderStore{tx: t.tx} }
func (t *pgTx) Inventory() domain.InventoryLedger { return &txLedger{tx: t.tx} }

var (
	_ domain.UnitOfWork = (*Store)(nil)
	_ domain.Tx         = (*pgTx)(nil)
)
