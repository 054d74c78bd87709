package stock

import (
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// ApplyMovement aplica el delta de un movimiento sobre un registro de stock.
// Es la única forma legítima de mutar la proyección: el servicio de movimientos
// y el replay de reconciliación pasan por aquí.
func ApplyMovement(record *entity.StockRecord, movement *entity.StockMovement) {
	record.Quantity = record.Quantity.Add(movement.QuantityDelta)
	if movement.Timestamp.After(record.LastMovementAt) {
		record.LastMovementAt = movement.Timestamp
	}
}
