package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockRecord representa la proyección materializada de stock por (item, ubicación).
// Se crea con el primer movimiento que toca la clave y nunca se borra (la cantidad
// puede llegar a cero pero el registro persiste para auditoría).
// ReservedQuantity pertenece al colaborador externo de reservas: aquí solo se lee.
type StockRecord struct {
	ItemID           string
	LocationID       string
	Quantity         decimal.Decimal
	ReservedQuantity decimal.Decimal
	LastMovementAt   time.Time
	UpdatedAt        time.Time
}

// Available devuelve la cantidad disponible (cantidad − reservada).
// Siempre derivada, nunca almacenada por separado.
func (r *StockRecord) Available() decimal.Decimal {
	return r.Quantity.Sub(r.ReservedQuantity)
}
