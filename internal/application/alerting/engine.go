// Package alerting implementa el motor de alertas de stock: evaluación de
// umbrales tras cada movimiento confirmado, deduplicación por clave
// (item, ubicación, tipo) y reconocimiento idempotente.
package alerting

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/jhoicas/Kardex-api/internal/domain/stock"
)

// Cambios que puede reportar una evaluación.
const (
	ChangeCreated  = "created"
	ChangeUpdated  = "updated"
	ChangeReopened = "reopened"
	ChangeResolved = "resolved"
)

// Transition describe el cambio de estado de una alerta durante una evaluación.
type Transition struct {
	Alert  *entity.StockAlert
	Change string
}

// Engine evalúa registros de stock contra sus umbrales de catálogo y mantiene
// el estado de alertas deduplicadas. No tiene estado propio: opera sobre el
// repositorio que el caller le pasa (normalmente atado a la transacción del
// movimiento, para que alerta y proyección compartan el mismo commit).
type Engine struct {
	warningDays  int
	criticalDays int
}

// NewEngine construye el motor con las ventanas de vencimiento configuradas.
func NewEngine(warningDays, criticalDays int) *Engine {
	return &Engine{warningDays: warningDays, criticalDays: criticalDays}
}

// Evaluate deriva las condiciones vigentes del registro y las concilia con las
// filas de alerta existentes:
//   - condición nueva sin fila → crea pending
//   - condición vigente con fila pending → actualiza valores, nunca duplica
//   - condición vigente con fila acknowledged → se deja intacta
//   - condición vigente con fila resolved → la reabre como pending
//   - fila activa cuyo tipo quedó sin condición → se resuelve automáticamente
//
// La subsunción (out_of_stock sobre low_stock, expiry_critical sobre
// expiry_warning) cae sola de estas reglas: el tipo subsumido no emite
// candidato y su fila activa se resuelve.
func (e *Engine) Evaluate(
	ctx context.Context,
	alertRepo repository.StockAlertRepository,
	record *entity.StockRecord,
	item *entity.ItemMaster,
	now time.Time,
) ([]Transition, error) {
	candidates := stock.EvaluateAlerts(record, item, now, e.warningDays, e.criticalDays)
	byType := make(map[string]stock.AlertCandidate, len(candidates))
	for _, c := range candidates {
		byType[c.Type] = c
	}

	var transitions []Transition
	for _, alertType := range entity.AlertTypes {
		existing, err := alertRepo.GetByKey(ctx, record.ItemID, record.LocationID, alertType)
		if err != nil {
			return nil, err
		}

		cand, holds := byType[alertType]
		switch {
		case holds && existing == nil:
			alert := &entity.StockAlert{
				ID:             uuid.New().String(),
				ItemID:         record.ItemID,
				LocationID:     record.LocationID,
				Type:           cand.Type,
				Severity:       cand.Severity,
				ThresholdValue: cand.Threshold,
				CurrentValue:   cand.Current,
				Status:         entity.AlertStatusPending,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if err := alertRepo.Upsert(ctx, alert); err != nil {
				return nil, err
			}
			transitions = append(transitions, Transition{Alert: alert, Change: ChangeCreated})

		case holds && existing.Status == entity.AlertStatusPending:
			existing.CurrentValue = cand.Current
			existing.ThresholdValue = cand.Threshold
			existing.Severity = cand.Severity
			existing.UpdatedAt = now
			if err := alertRepo.Upsert(ctx, existing); err != nil {
				return nil, err
			}
			transitions = append(transitions, Transition{Alert: existing, Change: ChangeUpdated})

		case holds && existing.Status == entity.AlertStatusResolved:
			existing.Status = entity.AlertStatusPending
			existing.Severity = cand.Severity
			existing.ThresholdValue = cand.Threshold
			existing.CurrentValue = cand.Current
			existing.AcknowledgedBy = ""
			existing.AcknowledgedAt = nil
			existing.ResolvedAt = nil
			existing.UpdatedAt = now
			if err := alertRepo.Upsert(ctx, existing); err != nil {
				return nil, err
			}
			transitions = append(transitions, Transition{Alert: existing, Change: ChangeReopened})

		case holds:
			// Fila acknowledged con la condición aún vigente: se deja intacta.

		case existing != nil && existing.Active():
			existing.Status = entity.AlertStatusResolved
			resolvedAt := now
			existing.ResolvedAt = &resolvedAt
			existing.UpdatedAt = now
			if err := alertRepo.Upsert(ctx, existing); err != nil {
				return nil, err
			}
			transitions = append(transitions, Transition{Alert: existing, Change: ChangeResolved})
		}
	}

	return transitions, nil
}
