package stock

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// AlertCandidate es una condición de alerta vigente para una clave (item, ubicación).
type AlertCandidate struct {
	Type      string
	Severity  string
	Threshold decimal.Decimal
	Current   decimal.Decimal
}

// EvaluateAlerts deriva las condiciones de alerta vigentes para un registro.
// Las condiciones subsumidas no se emiten: out_of_stock reemplaza a low_stock
// y expiry_critical a expiry_warning; el motor resuelve las filas cuyo tipo
// quedó sin candidato.
func EvaluateAlerts(record *entity.StockRecord, item *entity.ItemMaster, now time.Time, warningDays, criticalDays int) []AlertCandidate {
	var candidates []AlertCandidate

	available := record.Available()
	switch {
	case !available.IsPositive():
		candidates = append(candidates, AlertCandidate{
			Type:      entity.AlertTypeOutOfStock,
			Severity:  entity.AlertSeverityCritical,
			Threshold: decimal.Zero,
			Current:   available,
		})
	case item.ReorderLevel.IsPositive() && available.LessThanOrEqual(item.ReorderLevel):
		candidates = append(candidates, AlertCandidate{
			Type:      entity.AlertTypeLowStock,
			Severity:  entity.AlertSeverityWarning,
			Threshold: item.ReorderLevel,
			Current:   available,
		})
	}

	if item.MaxStockLevel.IsPositive() && record.Quantity.GreaterThan(item.MaxStockLevel) {
		candidates = append(candidates, AlertCandidate{
			Type:      entity.AlertTypeOverstock,
			Severity:  entity.AlertSeverityWarning,
			Threshold: item.MaxStockLevel,
			Current:   record.Quantity,
		})
	}

	// Las alertas de vencimiento solo aplican mientras haya existencias.
	if item.ExpiryDate != nil && record.Quantity.IsPositive() {
		days := daysUntil(now, *item.ExpiryDate)
		switch {
		case days <= criticalDays:
			candidates = append(candidates, AlertCandidate{
				Type:      entity.AlertTypeExpiryCritical,
				Severity:  entity.AlertSeverityCritical,
				Threshold: decimal.NewFromInt(int64(criticalDays)),
				Current:   decimal.NewFromInt(int64(days)),
			})
		case days <= warningDays:
			candidates = append(candidates, AlertCandidate{
				Type:      entity.AlertTypeExpiryWarning,
				Severity:  entity.AlertSeverityWarning,
				Threshold: decimal.NewFromInt(int64(warningDays)),
				Current:   decimal.NewFromInt(int64(days)),
			})
		}
	}

	return candidates
}

// daysUntil devuelve los días calendario hasta la fecha de vencimiento
// (negativo si ya venció).
func daysUntil(now, expiry time.Time) int {
	return int(math.Ceil(expiry.Sub(now).Hours() / 24))
}
