package repository

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// AlertFilter filtros para listar alertas.
type AlertFilter struct {
	ItemID     string
	LocationID string
	Type       string
	Status     string
	Limit      int
	Offset     int
}

// StockAlertRepository define el puerto de persistencia del estado de alertas.
// Hay a lo sumo una fila por (item, ubicación, tipo); el upsert nunca duplica.
type StockAlertRepository interface {
	GetByID(ctx context.Context, id string) (*entity.StockAlert, error)
	// GetByKey devuelve la fila de la clave en cualquier estado, o nil si no existe.
	GetByKey(ctx context.Context, itemID, locationID, alertType string) (*entity.StockAlert, error)
	Upsert(ctx context.Context, alert *entity.StockAlert) error
	List(ctx context.Context, filter AlertFilter) ([]*entity.StockAlert, error)
}
