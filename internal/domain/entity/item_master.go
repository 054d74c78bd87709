package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ítem en el catálogo maestro.
const (
	ItemStatusActive       = "active"
	ItemStatusDiscontinued = "discontinued"
)

// ItemMaster son los atributos de catálogo de un ítem. Dato externo de solo lectura:
// este núcleo los consulta para derivar estados y umbrales de alerta, nunca los modifica.
type ItemMaster struct {
	ID            string
	SKU           string
	Name          string
	ReorderLevel  decimal.Decimal
	MaxStockLevel decimal.Decimal
	ExpiryDate    *time.Time
	Status        string
}

// Location es una ubicación física de stock (bodega, estantería, punto de venta).
// Dato maestro externo, solo lectura.
type Location struct {
	ID     string
	Name   string
	Status string
}
