// Package stock implementa los casos de uso del libro de stock: ajustes,
// traslados, entradas/salidas y reconciliación contra la proyección.
package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/application/alerting"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	domstock "github.com/jhoicas/Kardex-api/internal/domain/stock"
)

// MovementUseCase valida y aplica operaciones que mutan stock de forma atómica:
// escribe el movimiento al libro, actualiza la proyección y reevalúa alertas
// dentro de una sola transacción. Las notificaciones salen después del commit.
type MovementUseCase struct {
	txRunner     TxRunner
	itemRepo     repository.ItemMasterRepository
	locationRepo repository.LocationRepository
	engine       *alerting.Engine
	notifier     alerting.Notifier
}

// NewMovementUseCase construye el caso de uso. notifier puede ser alerting.NopNotifier{}.
func NewMovementUseCase(
	txRunner TxRunner,
	itemRepo repository.ItemMasterRepository,
	locationRepo repository.LocationRepository,
	engine *alerting.Engine,
	notifier alerting.Notifier,
) *MovementUseCase {
	return &MovementUseCase{
		txRunner:     txRunner,
		itemRepo:     itemRepo,
		locationRepo: locationRepo,
		engine:       engine,
		notifier:     notifier,
	}
}

// AdjustStockInput entrada para un ajuste de stock.
// Delta es con signo. Override solo tiene efecto con Reason=correction y permite
// que una corrección de drift deje la cantidad por debajo de cero.
type AdjustStockInput struct {
	ItemID      string
	LocationID  string
	Delta       decimal.Decimal
	Reason      string
	Reference   string
	Notes       string
	PerformedBy string
	Override    bool
}

// MovementResult resultado de una operación de un solo movimiento.
type MovementResult struct {
	Movement    *entity.StockMovement
	Record      *entity.StockRecord
	Status      string // estado derivado tras aplicar el movimiento
	Transitions []alerting.Transition
}

// TransferStockInput entrada para un traslado entre ubicaciones.
type TransferStockInput struct {
	ItemID         string
	FromLocationID string
	ToLocationID   string
	Quantity       decimal.Decimal
	Reason         string
	PerformedBy    string
}

// TransferResult resultado de un traslado: el par de movimientos ligados y
// ambos registros ya actualizados.
type TransferResult struct {
	TransferGroupID string
	Movements       []*entity.StockMovement
	Origin          *entity.StockRecord
	Destination     *entity.StockRecord
	Transitions     []alerting.Transition
}

// ReceiveStockInput entrada de mercancía (movimiento tipo "in").
type ReceiveStockInput struct {
	ItemID      string
	LocationID  string
	Quantity    decimal.Decimal
	Reference   string
	Notes       string
	PerformedBy string
}

// IssueStockInput salida de mercancía (movimiento tipo "out").
type IssueStockInput struct {
	ItemID      string
	LocationID  string
	Quantity    decimal.Decimal
	Reference   string
	Notes       string
	PerformedBy string
}

// AdjustStock aplica un ajuste con razón catalogada. Rechaza delta cero y
// razones fuera de catálogo; rechaza resultados negativos en cantidad o en
// disponible salvo corrección con override explícito.
func (uc *MovementUseCase) AdjustStock(ctx context.Context, in AdjustStockInput) (*MovementResult, error) {
	if in.Delta.IsZero() {
		return nil, domain.ErrInvalidMovement
	}
	if !entity.ValidAdjustmentReason(in.Reason) {
		return nil, domain.ErrInvalidMovement
	}

	item, err := uc.resolveItem(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	if err := uc.checkLocation(ctx, in.LocationID); err != nil {
		return nil, err
	}

	allowNegative := in.Reason == entity.AdjustmentReasonCorrection && in.Override
	now := time.Now()
	var result *MovementResult

	err = uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		recordRepo repository.StockRecordRepository,
		alertRepo repository.StockAlertRepository,
	) error {
		mov := &entity.StockMovement{
			ItemID:        in.ItemID,
			LocationID:    in.LocationID,
			Type:          entity.MovementTypeAdjustment,
			QuantityDelta: in.Delta,
			Reason:        in.Reason,
			Reference:     in.Reference,
			Notes:         in.Notes,
			PerformedBy:   in.PerformedBy,
			Timestamp:     now,
			CreatedAt:     now,
		}
		var txErr error
		result, txErr = uc.applyToKey(ctx, movRepo, recordRepo, alertRepo, item, mov, allowNegative, now)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	uc.notifier.NotifyTransitions(result.Transitions)
	return result, nil
}

// ReceiveStock registra una entrada de mercancía (cantidad positiva).
func (uc *MovementUseCase) ReceiveStock(ctx context.Context, in ReceiveStockInput) (*MovementResult, error) {
	if !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidMovement
	}
	return uc.singleMovement(ctx, in.ItemID, in.LocationID, entity.MovementTypeIn,
		in.Quantity, in.Reference, in.Notes, in.PerformedBy)
}

// IssueStock registra una salida de mercancía. Falla con ErrInsufficientStock
// si el disponible no cubre la cantidad.
func (uc *MovementUseCase) IssueStock(ctx context.Context, in IssueStockInput) (*MovementResult, error) {
	if !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidMovement
	}
	return uc.singleMovement(ctx, in.ItemID, in.LocationID, entity.MovementTypeOut,
		in.Quantity.Neg(), in.Reference, in.Notes, in.PerformedBy)
}

// TransferStock traslada stock entre dos ubicaciones como una unidad atómica:
// dos movimientos ligados por un transfer_group_id cuyos deltas suman cero,
// ambos registros actualizados en el mismo commit. Un traslado visible por un
// solo lado nunca es observable.
func (uc *MovementUseCase) TransferStock(ctx context.Context, in TransferStockInput) (*TransferResult, error) {
	if !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidMovement
	}
	if in.FromLocationID == in.ToLocationID {
		return nil, domain.ErrInvalidMovement
	}

	item, err := uc.resolveItem(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	if err := uc.checkLocation(ctx, in.FromLocationID); err != nil {
		return nil, err
	}
	if err := uc.checkLocation(ctx, in.ToLocationID); err != nil {
		return nil, err
	}

	now := time.Now()
	groupID := uuid.New().String()
	result := &TransferResult{TransferGroupID: groupID}

	err = uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		recordRepo repository.StockRecordRepository,
		alertRepo repository.StockAlertRepository,
	) error {
		// Bloqueo de ambas particiones en orden canónico (lexicográfico por
		// ubicación) para evitar deadlock entre traslados cruzados concurrentes.
		lockOrder := []string{in.FromLocationID, in.ToLocationID}
		if lockOrder[1] < lockOrder[0] {
			lockOrder[0], lockOrder[1] = lockOrder[1], lockOrder[0]
		}
		records := make(map[string]*entity.StockRecord, 2)
		for _, loc := range lockOrder {
			rec, err := recordRepo.GetForUpdate(ctx, in.ItemID, loc)
			if err != nil {
				return err
			}
			records[loc] = rec
		}
		origin := records[in.FromLocationID]
		dest := records[in.ToLocationID]

		if origin.Available().LessThan(in.Quantity) {
			return domain.ErrInsufficientStock
		}

		halves := []struct {
			record *entity.StockRecord
			delta  decimal.Decimal
		}{
			{origin, in.Quantity.Neg()},
			{dest, in.Quantity},
		}
		for _, h := range halves {
			seq, err := movRepo.NextSequence(ctx, in.ItemID, h.record.LocationID)
			if err != nil {
				return err
			}
			mov := &entity.StockMovement{
				ItemID:          in.ItemID,
				LocationID:      h.record.LocationID,
				Type:            entity.MovementTypeTransfer,
				QuantityDelta:   h.delta,
				Reason:          in.Reason,
				TransferGroupID: groupID,
				Sequence:        seq,
				PerformedBy:     in.PerformedBy,
				Timestamp:       now,
				CreatedAt:       now,
			}
			if err := movRepo.Append(ctx, mov); err != nil {
				return err
			}
			domstock.ApplyMovement(h.record, mov)
			h.record.UpdatedAt = now
			if err := recordRepo.Upsert(ctx, h.record); err != nil {
				return err
			}
			result.Movements = append(result.Movements, mov)
		}

		for _, rec := range []*entity.StockRecord{origin, dest} {
			transitions, err := uc.engine.Evaluate(ctx, alertRepo, rec, item, now)
			if err != nil {
				return err
			}
			result.Transitions = append(result.Transitions, transitions...)
		}
		result.Origin = origin
		result.Destination = dest
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.notifier.NotifyTransitions(result.Transitions)
	return result, nil
}

// singleMovement camino común de entradas y salidas simples.
func (uc *MovementUseCase) singleMovement(
	ctx context.Context,
	itemID, locationID, movType string,
	delta decimal.Decimal,
	reference, notes, performedBy string,
) (*MovementResult, error) {
	item, err := uc.resolveItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := uc.checkLocation(ctx, locationID); err != nil {
		return nil, err
	}

	now := time.Now()
	var result *MovementResult
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		recordRepo repository.StockRecordRepository,
		alertRepo repository.StockAlertRepository,
	) error {
		mov := &entity.StockMovement{
			ItemID:        itemID,
			LocationID:    locationID,
			Type:          movType,
			QuantityDelta: delta,
			Reference:     reference,
			Notes:         notes,
			PerformedBy:   performedBy,
			Timestamp:     now,
			CreatedAt:     now,
		}
		var txErr error
		result, txErr = uc.applyToKey(ctx, movRepo, recordRepo, alertRepo, item, mov, false, now)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	uc.notifier.NotifyTransitions(result.Transitions)
	return result, nil
}

// applyToKey bloquea la partición, valida los pisos de cantidad/disponible,
// asigna secuencia, escribe el movimiento, actualiza la proyección y reevalúa
// alertas. Debe llamarse dentro de la transacción.
func (uc *MovementUseCase) applyToKey(
	ctx context.Context,
	movRepo repository.StockMovementRepository,
	recordRepo repository.StockRecordRepository,
	alertRepo repository.StockAlertRepository,
	item *entity.ItemMaster,
	mov *entity.StockMovement,
	allowNegative bool,
	now time.Time,
) (*MovementResult, error) {
	rec, err := recordRepo.GetForUpdate(ctx, mov.ItemID, mov.LocationID)
	if err != nil {
		return nil, err
	}

	newQty := rec.Quantity.Add(mov.QuantityDelta)
	newAvailable := newQty.Sub(rec.ReservedQuantity)
	if !allowNegative && (newQty.IsNegative() || newAvailable.IsNegative()) {
		return nil, domain.ErrInsufficientStock
	}

	seq, err := movRepo.NextSequence(ctx, mov.ItemID, mov.LocationID)
	if err != nil {
		return nil, err
	}
	mov.Sequence = seq
	if err := movRepo.Append(ctx, mov); err != nil {
		return nil, err
	}

	domstock.ApplyMovement(rec, mov)
	rec.UpdatedAt = now
	if err := recordRepo.Upsert(ctx, rec); err != nil {
		return nil, err
	}

	transitions, err := uc.engine.Evaluate(ctx, alertRepo, rec, item, now)
	if err != nil {
		return nil, err
	}

	return &MovementResult{
		Movement:    mov,
		Record:      rec,
		Status:      domstock.DeriveStatus(rec, item, now),
		Transitions: transitions,
	}, nil
}

func (uc *MovementUseCase) resolveItem(ctx context.Context, itemID string) (*entity.ItemMaster, error) {
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrUnknownItemOrLocation
	}
	return item, nil
}

func (uc *MovementUseCase) checkLocation(ctx context.Context, locationID string) error {
	loc, err := uc.locationRepo.GetByID(ctx, locationID)
	if err != nil {
		return err
	}
	if loc == nil {
		return domain.ErrUnknownItemOrLocation
	}
	return nil
}
