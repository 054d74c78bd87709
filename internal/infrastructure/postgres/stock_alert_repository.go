package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.StockAlertRepository = (*StockAlertRepo)(nil)

// StockAlertRepo implementación del estado de alertas sobre PostgreSQL
// (usable con pool o tx). El índice único (item_id, location_id, type)
// respalda la garantía de una fila por clave.
type StockAlertRepo struct {
	q Querier
}

// NewStockAlertRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockAlertRepository(q Querier) *StockAlertRepo {
	return &StockAlertRepo{q: q}
}

const alertColumns = `id, item_id, location_id, type, severity, threshold_value, current_value,
	status, acknowledged_by, acknowledged_at, resolved_at, created_at, updated_at`

// GetByID obtiene una alerta por ID, o nil si no existe.
func (r *StockAlertRepo) GetByID(ctx context.Context, id string) (*entity.StockAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM stock_alerts WHERE id = $1`
	a, err := scanAlert(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get alert: %w", err)
	}
	return a, nil
}

// GetByKey devuelve la fila de la clave (item, ubicación, tipo) en cualquier
// estado, o nil si nunca existió.
func (r *StockAlertRepo) GetByKey(ctx context.Context, itemID, locationID, alertType string) (*entity.StockAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM stock_alerts
		WHERE item_id = $1 AND location_id = $2 AND type = $3`
	a, err := scanAlert(r.q.QueryRow(ctx, query, itemID, locationID, alertType))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get alert by key: %w", err)
	}
	return a, nil
}

// Upsert inserta o actualiza la fila de la clave. Nunca duplica: el conflicto
// sobre (item_id, location_id, type) actualiza en el lugar.
func (r *StockAlertRepo) Upsert(ctx context.Context, a *entity.StockAlert) error {
	query := `
		INSERT INTO stock_alerts (` + alertColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (item_id, location_id, type)
		DO UPDATE SET severity = EXCLUDED.severity,
		              threshold_value = EXCLUDED.threshold_value,
		              current_value = EXCLUDED.current_value,
		              status = EXCLUDED.status,
		              acknowledged_by = EXCLUDED.acknowledged_by,
		              acknowledged_at = EXCLUDED.acknowledged_at,
		              resolved_at = EXCLUDED.resolved_at,
		              updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.ItemID, a.LocationID, a.Type, a.Severity, a.ThresholdValue,
		a.CurrentValue, a.Status, nullable(a.AcknowledgedBy), a.AcknowledgedAt,
		a.ResolvedAt, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert alert: %w", err)
	}
	return nil
}

// List lista alertas con filtros dinámicos, más recientes primero.
func (r *StockAlertRepo) List(ctx context.Context, f repository.AlertFilter) ([]*entity.StockAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM stock_alerts WHERE 1=1`
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
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	query += fmt.Sprintf(" ORDER BY updated_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockAlert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func scanAlert(row pgx.Row) (*entity.StockAlert, error) {
	var a entity.StockAlert
	var acknowledgedBy *string
	err := row.Scan(
		&a.ID, &a.ItemID, &a.LocationID, &a.Type, &a.Severity, &a.ThresholdValue,
		&a.CurrentValue, &a.Status, &acknowledgedBy, &a.AcknowledgedAt,
		&a.ResolvedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if acknowledgedBy != nil {
		a.AcknowledgedBy = *acknowledgedBy
	}
	return &a, nil
}
