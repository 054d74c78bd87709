package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// AcknowledgeAlertRequest body para POST /api/alerts/:id/acknowledge.
type AcknowledgeAlertRequest struct {
	PerformedBy string `json:"performed_by" validate:"required"`
}

// AlertDTO representación de una alerta de stock.
type AlertDTO struct {
	ID             string          `json:"id"`
	ItemID         string          `json:"item_id"`
	LocationID     string          `json:"location_id"`
	Type           string          `json:"type"`
	Severity       string          `json:"severity"`
	ThresholdValue decimal.Decimal `json:"threshold_value"`
	CurrentValue   decimal.Decimal `json:"current_value"`
	Status         string          `json:"status"`
	AcknowledgedBy string          `json:"acknowledged_by,omitempty"`
	AcknowledgedAt *time.Time      `json:"acknowledged_at,omitempty"`
	ResolvedAt     *time.Time      `json:"resolved_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// AlertEventDTO evento emitido por el stream de alertas (websocket).
type AlertEventDTO struct {
	Change string   `json:"change"` // created, updated, reopened, resolved
	Alert  AlertDTO `json:"alert"`
}

// NewAlertDTO mapea la entidad a su representación de API.
func NewAlertDTO(a *entity.StockAlert) AlertDTO {
	return AlertDTO{
		ID:             a.ID,
		ItemID:         a.ItemID,
		LocationID:     a.LocationID,
		Type:           a.Type,
		Severity:       a.Severity,
		ThresholdValue: a.ThresholdValue,
		CurrentValue:   a.CurrentValue,
		Status:         a.Status,
		AcknowledgedBy: a.AcknowledgedBy,
		AcknowledgedAt: a.AcknowledgedAt,
		ResolvedAt:     a.ResolvedAt,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}
