package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de alerta de stock.
const (
	AlertTypeLowStock       = "low_stock"
	AlertTypeOutOfStock     = "out_of_stock"
	AlertTypeOverstock      = "overstock"
	AlertTypeExpiryWarning  = "expiry_warning"
	AlertTypeExpiryCritical = "expiry_critical"
)

// Estados de una alerta. La ausencia de fila equivale a NONE.
const (
	AlertStatusPending      = "pending"
	AlertStatusAcknowledged = "acknowledged"
	AlertStatusResolved     = "resolved"
)

// Severidades de alerta.
const (
	AlertSeverityWarning  = "warning"
	AlertSeverityCritical = "critical"
)

// AlertTypes lista los tipos conocidos, en el orden en que se evalúan.
var AlertTypes = []string{
	AlertTypeOutOfStock,
	AlertTypeLowStock,
	AlertTypeOverstock,
	AlertTypeExpiryCritical,
	AlertTypeExpiryWarning,
}

// StockAlert representa el estado de alerta por (item, ubicación, tipo).
// Hay a lo sumo una fila por clave; el estado cicla pending → acknowledged → resolved
// y una fila resuelta vuelve a pending si la condición reincide.
type StockAlert struct {
	ID             string
	ItemID         string
	LocationID     string
	Type           string
	Severity       string
	ThresholdValue decimal.Decimal
	CurrentValue   decimal.Decimal
	Status         string
	AcknowledgedBy string
	AcknowledgedAt *time.Time
	ResolvedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Active indica si la alerta sigue abierta (pending o acknowledged).
func (a *StockAlert) Active() bool {
	return a.Status == AlertStatusPending || a.Status == AlertStatusAcknowledged
}
