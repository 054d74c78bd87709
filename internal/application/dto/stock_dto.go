package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// AdjustStockRequest body para POST /api/stock/adjustments.
// Delta es con signo; Override solo aplica con reason=correction.
type AdjustStockRequest struct {
	ItemID      string          `json:"item_id" validate:"required"`
	LocationID  string          `json:"location_id" validate:"required"`
	Delta       decimal.Decimal `json:"delta" validate:"required"`
	Reason      string          `json:"reason" validate:"required,oneof=damaged expired lost found correction return restock other"`
	Notes       string          `json:"notes,omitempty"`
	Reference   string          `json:"reference,omitempty"`
	Override    bool            `json:"override,omitempty"`
	PerformedBy string          `json:"performed_by" validate:"required"`
}

// TransferStockRequest body para POST /api/stock/transfers.
type TransferStockRequest struct {
	ItemID         string          `json:"item_id" validate:"required"`
	FromLocationID string          `json:"from_location_id" validate:"required"`
	ToLocationID   string          `json:"to_location_id" validate:"required,nefield=FromLocationID"`
	Quantity       decimal.Decimal `json:"quantity" validate:"required"`
	Reason         string          `json:"reason,omitempty"`
	PerformedBy    string          `json:"performed_by" validate:"required"`
}

// ReceiveStockRequest body para POST /api/stock/entries (entrada de mercancía).
type ReceiveStockRequest struct {
	ItemID      string          `json:"item_id" validate:"required"`
	LocationID  string          `json:"location_id" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity" validate:"required"`
	Reference   string          `json:"reference,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	PerformedBy string          `json:"performed_by" validate:"required"`
}

// IssueStockRequest body para POST /api/stock/exits (salida de mercancía).
type IssueStockRequest struct {
	ItemID      string          `json:"item_id" validate:"required"`
	LocationID  string          `json:"location_id" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity" validate:"required"`
	Reference   string          `json:"reference,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	PerformedBy string          `json:"performed_by" validate:"required"`
}

// StockRecordDTO snapshot de la proyección más el estado derivado al momento de la lectura.
type StockRecordDTO struct {
	ItemID            string          `json:"item_id"`
	LocationID        string          `json:"location_id"`
	Quantity          decimal.Decimal `json:"quantity"`
	ReservedQuantity  decimal.Decimal `json:"reserved_quantity"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	Status            string          `json:"status"`
	LastMovementAt    *time.Time      `json:"last_movement_at,omitempty"`
}

// MovementDTO representación de un movimiento del libro.
type MovementDTO struct {
	ID              string          `json:"id"`
	ItemID          string          `json:"item_id"`
	LocationID      string          `json:"location_id"`
	Type            string          `json:"type"`
	QuantityDelta   decimal.Decimal `json:"quantity_delta"`
	Reason          string          `json:"reason,omitempty"`
	Reference       string          `json:"reference,omitempty"`
	TransferGroupID string          `json:"transfer_group_id,omitempty"`
	Sequence        int64           `json:"sequence"`
	PerformedBy     string          `json:"performed_by,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	Timestamp       time.Time       `json:"timestamp"`
}

// ReconcileReportDTO resultado de reconstruir una clave desde el libro.
// El drift se reporta como diagnóstico; nunca se corrige en automático.
type ReconcileReportDTO struct {
	Live          StockRecordDTO  `json:"live"`
	Recomputed    StockRecordDTO  `json:"recomputed"`
	MovementCount int             `json:"movement_count"`
	LastSequence  int64           `json:"last_sequence"`
	InSync        bool            `json:"in_sync"`
	QuantityDrift decimal.Decimal `json:"quantity_drift"`
}

// NewMovementDTO mapea la entidad a su representación de API.
func NewMovementDTO(m *entity.StockMovement) MovementDTO {
	return MovementDTO{
		ID:              m.ID,
		ItemID:          m.ItemID,
		LocationID:      m.LocationID,
		Type:            m.Type,
		QuantityDelta:   m.QuantityDelta,
		Reason:          m.Reason,
		Reference:       m.Reference,
		TransferGroupID: m.TransferGroupID,
		Sequence:        m.Sequence,
		PerformedBy:     m.PerformedBy,
		Notes:           m.Notes,
		Timestamp:       m.Timestamp,
	}
}

// NewStockRecordDTO mapea la proyección y su estado derivado.
func NewStockRecordDTO(r *entity.StockRecord, status string) StockRecordDTO {
	d := StockRecordDTO{
		ItemID:            r.ItemID,
		LocationID:        r.LocationID,
		Quantity:          r.Quantity,
		ReservedQuantity:  r.ReservedQuantity,
		AvailableQuantity: r.Available(),
		Status:            status,
	}
	if !r.LastMovementAt.IsZero() {
		t := r.LastMovementAt
		d.LastMovementAt = &t
	}
	return d
}
