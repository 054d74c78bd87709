package stock

import (
	"context"
	"time"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	domstock "github.com/jhoicas/Kardex-api/internal/domain/stock"
)

// QueryUseCase lecturas del núcleo: snapshot de proyección con estado derivado
// y listados del libro de movimientos. Exportación y reportes consumen solo
// estas operaciones, nunca escriben al libro.
type QueryUseCase struct {
	recordRepo repository.StockRecordRepository
	movRepo    repository.StockMovementRepository
	itemRepo   repository.ItemMasterRepository
}

// NewQueryUseCase construye el caso de uso de lecturas.
func NewQueryUseCase(
	recordRepo repository.StockRecordRepository,
	movRepo repository.StockMovementRepository,
	itemRepo repository.ItemMasterRepository,
) *QueryUseCase {
	return &QueryUseCase{recordRepo: recordRepo, movRepo: movRepo, itemRepo: itemRepo}
}

// GetStockRecord devuelve el snapshot actual de la clave con su estado derivado.
// El estado nunca se almacena: se calcula en cada lectura.
func (uc *QueryUseCase) GetStockRecord(ctx context.Context, itemID, locationID string) (*dto.StockRecordDTO, error) {
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrUnknownItemOrLocation
	}

	rec, err := uc.recordRepo.Get(ctx, itemID, locationID)
	if err != nil {
		return nil, err
	}

	view := dto.NewStockRecordDTO(rec, domstock.DeriveStatus(rec, item, time.Now()))
	return &view, nil
}

// ListMovements lista movimientos del libro según filtros.
func (uc *QueryUseCase) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]dto.MovementDTO, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	movements, err := uc.movRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return toMovementDTOs(movements), nil
}

// ListTransferGroup devuelve el par de movimientos ligados de un traslado.
func (uc *QueryUseCase) ListTransferGroup(ctx context.Context, transferGroupID string) ([]dto.MovementDTO, error) {
	movements, err := uc.movRepo.ListByTransferGroup(ctx, transferGroupID)
	if err != nil {
		return nil, err
	}
	if len(movements) == 0 {
		return nil, domain.ErrNotFound
	}
	return toMovementDTOs(movements), nil
}

func toMovementDTOs(movements []*entity.StockMovement) []dto.MovementDTO {
	out := make([]dto.MovementDTO, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.NewMovementDTO(m))
	}
	return out
}
