package repository

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// StockRecordRepository define el puerto para la proyección de stock por (item, ubicación).
// Usado dentro de transacciones para garantizar consistencia con el libro.
type StockRecordRepository interface {
	// Get devuelve el registro actual; si la clave nunca tuvo movimientos
	// devuelve un registro en cero (la clave puede ser válida sin historial).
	Get(ctx context.Context, itemID, locationID string) (*entity.StockRecord, error)
	// GetForUpdate garantiza que la fila exista y la bloquea (SELECT FOR UPDATE),
	// serializando las operaciones sobre la partición.
	GetForUpdate(ctx context.Context, itemID, locationID string) (*entity.StockRecord, error)
	// Upsert escribe cantidad y marca de último movimiento.
	// Nunca toca reserved_quantity: esa columna pertenece al colaborador de reservas.
	Upsert(ctx context.Context, record *entity.StockRecord) error
}
