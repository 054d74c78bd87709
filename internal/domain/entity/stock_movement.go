package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementTypeIn         = "in"         // entrada
	MovementTypeOut        = "out"        // salida
	MovementTypeAdjustment = "adjustment" // ajuste de inventario
	MovementTypeTransfer   = "transfer"   // traslado entre ubicaciones (par ligado)
)

// Razones válidas para un ajuste de stock.
const (
	AdjustmentReasonDamaged    = "damaged"
	AdjustmentReasonExpired    = "expired"
	AdjustmentReasonLost       = "lost"
	AdjustmentReasonFound      = "found"
	AdjustmentReasonCorrection = "correction"
	AdjustmentReasonReturn     = "return"
	AdjustmentReasonRestock    = "restock"
	AdjustmentReasonOther      = "other"
)

var adjustmentReasons = map[string]struct{}{
	AdjustmentReasonDamaged:    {},
	AdjustmentReasonExpired:    {},
	AdjustmentReasonLost:       {},
	AdjustmentReasonFound:      {},
	AdjustmentReasonCorrection: {},
	AdjustmentReasonReturn:     {},
	AdjustmentReasonRestock:    {},
	AdjustmentReasonOther:      {},
}

// ValidAdjustmentReason indica si la razón pertenece al catálogo cerrado de ajustes.
func ValidAdjustmentReason(reason string) bool {
	_, ok := adjustmentReasons[reason]
	return ok
}

// StockMovement representa una entrada inmutable del libro de movimientos (kardex).
// Las correcciones se registran como movimientos compensatorios, nunca como ediciones.
type StockMovement struct {
	ID              string
	ItemID          string
	LocationID      string
	Type            string
	QuantityDelta   decimal.Decimal // con signo: positivo suma, negativo resta
	Reason          string
	Reference       string
	TransferGroupID string // agrupa el par de movimientos de un traslado
	Sequence        int64  // monotónico por partición (item, ubicación)
	PerformedBy     string
	Notes           string
	Timestamp       time.Time
	CreatedAt       time.Time
}
