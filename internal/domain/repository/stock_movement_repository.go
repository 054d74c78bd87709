package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// MovementFilter filtros para listar movimientos del libro.
type MovementFilter struct {
	ItemID          string
	LocationID      string
	Type            string
	TransferGroupID string
	From            *time.Time
	To              *time.Time
	Limit           int
	Offset          int
}

// StockMovementRepository define el puerto de persistencia del libro de movimientos.
// El libro es append-only: no existen operaciones de edición ni borrado.
type StockMovementRepository interface {
	// Append persiste un movimiento inmutable. Asigna ID si viene vacío;
	// Sequence debe venir ya asignado por el caller.
	Append(ctx context.Context, movement *entity.StockMovement) error
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	List(ctx context.Context, filter MovementFilter) ([]*entity.StockMovement, error)
	// ListByKey devuelve movimientos de la partición (item, ubicación) con
	// sequence > afterSequence, en orden ascendente. Para replay paginado.
	ListByKey(ctx context.Context, itemID, locationID string, afterSequence int64, limit int) ([]*entity.StockMovement, error)
	ListByTransferGroup(ctx context.Context, transferGroupID string) ([]*entity.StockMovement, error)
	// NextSequence devuelve el siguiente número de secuencia de la partición.
	// Solo es seguro bajo el bloqueo de fila del registro de stock correspondiente.
	NextSequence(ctx context.Context, itemID, locationID string) (int64, error)
}
