package stock

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	domstock "github.com/jhoicas/Kardex-api/internal/domain/stock"
)

// replayBatchSize movimientos por página durante el replay.
const replayBatchSize = 500

// ReconcileReport resultado de reconstruir una clave desde el libro completo.
// El drift es un diagnóstico: nunca se corrige la proyección en automático.
type ReconcileReport struct {
	Live          *entity.StockRecord
	Recomputed    *entity.StockRecord
	MovementCount int
	LastSequence  int64
	InSync        bool
	QuantityDrift decimal.Decimal // viva − recalculada
}

// ReconcileUseCase reconstruye registros de stock reproduciendo el libro de
// movimientos desde cero. Operación de solo lectura, pensada para
// reconciliación y diagnóstico de drift.
type ReconcileUseCase struct {
	movRepo    repository.StockMovementRepository
	recordRepo repository.StockRecordRepository
}

// NewReconcileUseCase construye el caso de uso.
func NewReconcileUseCase(
	movRepo repository.StockMovementRepository,
	recordRepo repository.StockRecordRepository,
) *ReconcileUseCase {
	return &ReconcileUseCase{movRepo: movRepo, recordRepo: recordRepo}
}

// Reconstruct reproduce todos los movimientos de la clave en orden de secuencia
// y compara el resultado contra la proyección viva. El replay es cancelable:
// si ctx se cancela entre lotes, se descarta el parcial y se devuelve el error
// del contexto.
func (uc *ReconcileUseCase) Reconstruct(ctx context.Context, itemID, locationID string) (*ReconcileReport, error) {
	live, err := uc.recordRepo.Get(ctx, itemID, locationID)
	if err != nil {
		return nil, err
	}

	recomputed := &entity.StockRecord{
		ItemID:     itemID,
		LocationID: locationID,
		Quantity:   decimal.Zero,
		// ReservedQuantity no se deriva del libro: pertenece al colaborador
		// de reservas, así que se copia de la proyección viva.
		ReservedQuantity: live.ReservedQuantity,
	}

	var (
		count   int
		lastSeq int64
	)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		batch, err := uc.movRepo.ListByKey(ctx, itemID, locationID, lastSeq, replayBatchSize)
		if err != nil {
			return nil, err
		}
		for _, mov := range batch {
			domstock.ApplyMovement(recomputed, mov)
			lastSeq = mov.Sequence
			count++
		}
		if len(batch) < replayBatchSize {
			break
		}
	}
	recomputed.UpdatedAt = time.Now()

	drift := live.Quantity.Sub(recomputed.Quantity)
	return &ReconcileReport{
		Live:          live,
		Recomputed:    recomputed,
		MovementCount: count,
		LastSequence:  lastSeq,
		InSync:        drift.IsZero(),
		QuantityDrift: drift,
	}, nil
}
