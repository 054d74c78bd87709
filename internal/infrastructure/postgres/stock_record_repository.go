package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.StockRecordRepository = (*StockRecordRepo)(nil)

// StockRecordRepo implementación de la proyección de stock sobre PostgreSQL
// (usable con pool o tx).
type StockRecordRepo struct {
	q Querier
}

// NewStockRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockRecordRepository(q Querier) *StockRecordRepo {
	return &StockRecordRepo{q: q}
}

// Get obtiene el registro actual. Si la clave no tiene fila devuelve un
// registro en cero: la clave puede ser válida sin historial.
func (r *StockRecordRepo) Get(ctx context.Context, itemID, locationID string) (*entity.StockRecord, error) {
	query := `
		SELECT item_id, location_id, quantity, reserved_quantity, last_movement_at, updated_at
		FROM stock_records WHERE item_id = $1 AND location_id = $2`
	var rec entity.StockRecord
	err := r.q.QueryRow(ctx, query, itemID, locationID).Scan(
		&rec.ItemID, &rec.LocationID, &rec.Quantity, &rec.ReservedQuantity,
		&rec.LastMovementAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zeroRecord(itemID, locationID), nil
		}
		return nil, fmt.Errorf("get stock record: %w", err)
	}
	return &rec, nil
}

// GetForUpdate garantiza que exista la fila y la bloquea (SELECT FOR UPDATE),
// serializando las operaciones sobre la partición (item, ubicación).
func (r *StockRecordRepo) GetForUpdate(ctx context.Context, itemID, locationID string) (*entity.StockRecord, error) {
	// Claves nuevas: insertar la fila en cero primero para tener algo que bloquear.
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_records (item_id, location_id, quantity, reserved_quantity, last_movement_at, updated_at)
		VALUES ($1, $2, 0, 0, to_timestamp(0), now())
		ON CONFLICT (item_id, location_id) DO NOTHING`, itemID, locationID)
	if err != nil {
		return nil, fmt.Errorf("ensure stock record: %w", err)
	}

	query := `
		SELECT item_id, location_id, quantity, reserved_quantity, last_movement_at, updated_at
		FROM stock_records WHERE item_id = $1 AND location_id = $2
		FOR UPDATE`
	var rec entity.StockRecord
	err = r.q.QueryRow(ctx, query, itemID, locationID).Scan(
		&rec.ItemID, &rec.LocationID, &rec.Quantity, &rec.ReservedQuantity,
		&rec.LastMovementAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get stock record for update: %w", err)
	}
	return &rec, nil
}

// Upsert escribe cantidad y marcas de tiempo. No toca reserved_quantity:
// esa columna la administra el colaborador externo de reservas.
func (r *StockRecordRepo) Upsert(ctx context.Context, rec *entity.StockRecord) error {
	query := `
		INSERT INTO stock_records (item_id, location_id, quantity, reserved_quantity, last_movement_at, updated_at)
		VALUES ($1, $2, $3, 0, $4, now())
		ON CONFLICT (item_id, location_id)
		DO UPDATE SET quantity = EXCLUDED.quantity,
		              last_movement_at = EXCLUDED.last_movement_at,
		              updated_at = now()`
	_, err := r.q.Exec(ctx, query, rec.ItemID, rec.LocationID, rec.Quantity, rec.LastMovementAt)
	if err != nil {
		return fmt.Errorf("upsert stock record: %w", err)
	}
	return nil
}

func zeroRecord(itemID, locationID string) *entity.StockRecord {
	return &entity.StockRecord{
		ItemID:           itemID,
		LocationID:       locationID,
		Quantity:         decimal.Zero,
		ReservedQuantity: decimal.Zero,
	}
}
