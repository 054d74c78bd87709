package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx). La tabla stock_movements es append-only: este repo
// no expone UPDATE ni DELETE.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `id, item_id, location_id, type, quantity_delta, reason, reference,
	transfer_group_id, sequence, performed_by, notes, timestamp, created_at`

// Append persiste un movimiento inmutable. Asigna ID si viene vacío.
func (r *StockMovementRepo) Append(ctx context.Context, m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ItemID, m.LocationID, m.Type, m.QuantityDelta, m.Reason, m.Reference,
		nullable(m.TransferGroupID), m.Sequence, nullable(m.PerformedBy), m.Notes,
		m.Timestamp, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID, o nil si no existe.
func (r *StockMovementRepo) GetByID(ctx context.Context, id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// List lista movimientos con filtros dinámicos, más recientes primero.
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE 1=1`
	var args []any
	pos := 1
	add := func(clause string, val any) {
		query += fmt.Sprintf(" AND "+clause, pos)
		args = append(args, val)
		pos++
	}
	if f.ItemID != "" {
		add("item_id = $%d", f.ItemID)
	}
	if f.LocationID != "" {
		add("location_id = $%d", f.LocationID)
	}
	if f.Type != "" {
		add("type = $%d", f.Type)
	}
	if f.TransferGroupID != "" {
		add("transfer_group_id = $%d", f.TransferGroupID)
	}
	if f.From != nil {
		add("timestamp >= $%d", *f.From)
	}
	if f.To != nil {
		add("timestamp <= $%d", *f.To)
	}
	query += fmt.Sprintf(" ORDER BY timestamp DESC, sequence DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

// ListByKey devuelve movimientos de la partición con sequence > afterSequence,
// en orden ascendente. Para replay paginado de reconciliación.
func (r *StockMovementRepo) ListByKey(ctx context.Context, itemID, locationID string, afterSequence int64, limit int) ([]*entity.StockMovement, error) {
	// limit <= 0 significa sin tope, igual que el backend en memoria.
	var sqlLimit any
	if limit > 0 {
		sqlLimit = limit
	}
	query := `
		SELECT ` + movementColumns + ` FROM stock_movements
		WHERE item_id = $1 AND location_id = $2 AND sequence > $3
		ORDER BY sequence ASC LIMIT $4`
	rows, err := r.q.Query(ctx, query, itemID, locationID, afterSequence, sqlLimit)
	if err != nil {
		return nil, fmt.Errorf("list movements by key: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

// ListByTransferGroup devuelve el par de movimientos ligados de un traslado.
func (r *StockMovementRepo) ListByTransferGroup(ctx context.Context, transferGroupID string) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + ` FROM stock_movements
		WHERE transfer_group_id = $1 ORDER BY quantity_delta ASC`
	rows, err := r.q.Query(ctx, query, transferGroupID)
	if err != nil {
		return nil, fmt.Errorf("list transfer group: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

// NextSequence calcula la siguiente secuencia de la partición. Solo es seguro
// bajo el bloqueo de fila de stock_records de esa misma clave.
func (r *StockMovementRepo) NextSequence(ctx context.Context, itemID, locationID string) (int64, error) {
	var next int64
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(MAX(sequence), 0) + 1 FROM stock_movements
		WHERE item_id = $1 AND location_id = $2`, itemID, locationID).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return next, nil
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var transferGroupID, performedBy *string
	err := row.Scan(
		&m.ID, &m.ItemID, &m.LocationID, &m.Type, &m.QuantityDelta, &m.Reason,
		&m.Reference, &transferGroupID, &m.Sequence, &performedBy, &m.Notes,
		&m.Timestamp, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if transferGroupID != nil {
		m.TransferGroupID = *transferGroupID
	}
	if performedBy != nil {
		m.PerformedBy = *performedBy
	}
	return &m, nil
}

func scanMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// nullable convierte string vacío en NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
