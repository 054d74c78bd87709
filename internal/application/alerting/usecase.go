package alerting

import (
	"context"
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// AlertUseCase expone las operaciones de alertas hacia los callers externos:
// listado con filtros y reconocimiento manual.
type AlertUseCase struct {
	alertRepo repository.StockAlertRepository
}

// NewAlertUseCase construye el caso de uso.
func NewAlertUseCase(alertRepo repository.StockAlertRepository) *AlertUseCase {
	return &AlertUseCase{alertRepo: alertRepo}
}

// Acknowledge marca una alerta pendiente como reconocida por un usuario.
// Es idempotente: reconocer una alerta ya reconocida (o ya resuelta) no es un
// error, devuelve el estado actual sin modificarlo.
func (uc *AlertUseCase) Acknowledge(ctx context.Context, alertID, actor string) (*entity.StockAlert, error) {
	alert, err := uc.alertRepo.GetByID(ctx, alertID)
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return nil, domain.ErrNotFound
	}
	if alert.Status != entity.AlertStatusPending {
		return alert, nil
	}

	now := time.Now()
	alert.Status = entity.AlertStatusAcknowledged
	alert.AcknowledgedBy = actor
	alert.AcknowledgedAt = &now
	alert.UpdatedAt = now
	if err := uc.alertRepo.Upsert(ctx, alert); err != nil {
		return nil, err
	}
	return alert, nil
}

// List devuelve alertas según filtros (estado, ítem, ubicación, tipo).
func (uc *AlertUseCase) List(ctx context.Context, filter repository.AlertFilter) ([]*entity.StockAlert, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	return uc.alertRepo.List(ctx, filter)
}
