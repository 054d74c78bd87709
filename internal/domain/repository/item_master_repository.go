package repository

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// ItemMasterRepository es el puerto de solo lectura hacia el catálogo externo de ítems.
// Devuelve (nil, nil) si el ítem no existe.
type ItemMasterRepository interface {
	GetByID(ctx context.Context, id string) (*entity.ItemMaster, error)
}

// LocationRepository es el puerto de solo lectura hacia el maestro de ubicaciones.
// Devuelve (nil, nil) si la ubicación no existe.
type LocationRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Location, error)
}
