package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var (
	_ repository.ItemMasterRepository = (*ItemMasterRepo)(nil)
	_ repository.LocationRepository   = (*LocationRepo)(nil)
)

// ItemMasterRepo lectura del catálogo de ítems. El catálogo es sistema externo:
// este adaptador solo consulta, jamás escribe sobre items.
type ItemMasterRepo struct {
	q Querier
}

// NewItemMasterRepository construye el adaptador de catálogo.
func NewItemMasterRepository(q Querier) *ItemMasterRepo {
	return &ItemMasterRepo{q: q}
}

// GetByID obtiene los atributos de catálogo del ítem, o nil si no existe.
func (r *ItemMasterRepo) GetByID(ctx context.Context, id string) (*entity.ItemMaster, error) {
	query := `
		SELECT id, sku, name, reorder_level, max_stock_level, expiry_date, status
		FROM items WHERE id = $1`
	var item entity.ItemMaster
	err := r.q.QueryRow(ctx, query, id).Scan(
		&item.ID, &item.SKU, &item.Name, &item.ReorderLevel,
		&item.MaxStockLevel, &item.ExpiryDate, &item.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item master: %w", err)
	}
	return &item, nil
}

// LocationRepo lectura del maestro de ubicaciones (solo consulta).
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador de ubicaciones.
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

// GetByID obtiene una ubicación, o nil si no existe.
func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	query := `SELECT id, name, status FROM locations WHERE id = $1`
	var loc entity.Location
	err := r.q.QueryRow(ctx, query, id).Scan(&loc.ID, &loc.Name, &loc.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &loc, nil
}
