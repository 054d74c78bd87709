package memory

import (
	"context"

	appstock "github.com/jhoicas/Kardex-api/internal/application/stock"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ appstock.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks con semántica transaccional sobre el store:
// toma el mutex para toda la transacción, saca un snapshot y hace rollback
// restaurándolo si el callback falla.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run ejecuta fn con repos atados a la "transacción" (operan sin re-bloquear).
// Respeta la cancelación del contexto antes de empezar.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	recordRepo repository.StockRecordRepository,
	alertRepo repository.StockAlertRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	snap := r.s.takeSnapshot()
	err := fn(
		&movementRepo{s: r.s, inTx: true},
		&recordRepo{s: r.s, inTx: true},
		&alertRepo{s: r.s, inTx: true},
	)
	if err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}
