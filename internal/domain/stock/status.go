// Package stock contiene la lógica pura del dominio: derivación de estado,
// evaluación de umbrales de alerta y replay del libro de movimientos.
package stock

import (
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// Estados derivados de un registro de stock. Nunca se almacenan: se calculan al leer.
const (
	StatusInStock      = "IN_STOCK"
	StatusLowStock     = "LOW_STOCK"
	StatusOutOfStock   = "OUT_OF_STOCK"
	StatusDiscontinued = "DISCONTINUED"
	StatusExpired      = "EXPIRED"
)

// DeriveStatus calcula el estado de un registro según cantidad disponible y
// atributos de catálogo. DISCONTINUED y EXPIRED dominan sin importar la cantidad.
func DeriveStatus(record *entity.StockRecord, item *entity.ItemMaster, now time.Time) string {
	if item != nil {
		if item.Status == entity.ItemStatusDiscontinued {
			return StatusDiscontinued
		}
		if item.ExpiryDate != nil && !now.Before(*item.ExpiryDate) {
			return StatusExpired
		}
	}

	available := record.Available()
	if !available.IsPositive() {
		return StatusOutOfStock
	}
	if item != nil && item.ReorderLevel.IsPositive() && available.LessThanOrEqual(item.ReorderLevel) {
		return StatusLowStock
	}
	return StatusInStock
}
