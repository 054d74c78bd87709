package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	appstock "github.com/jhoicas/Kardex-api/internal/application/stock"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ appstock.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. Es el límite
// de atomicidad del libro: movimiento, proyección y alertas comparten el commit.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Los deadlocks y fallos de serialización se devuelven como
// domain.ErrConcurrentModification para que el caller decida si reintenta.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	recordRepo repository.StockRecordRepository,
	alertRepo repository.StockAlertRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	movRepo := NewStockMovementRepository(tx)
	recordRepo := NewStockRecordRepository(tx)
	alertRepo := NewStockAlertRepository(tx)

	if err := fn(movRepo, recordRepo, alertRepo); err != nil {
		return mapConcurrencyError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return mapConcurrencyError(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}
