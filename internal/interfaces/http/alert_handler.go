package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/internal/application/alerting"
	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// AlertHandler maneja las peticiones HTTP de alertas de stock.
type AlertHandler struct {
	alerts *alerting.AlertUseCase
}

// NewAlertHandler construye el handler.
func NewAlertHandler(alerts *alerting.AlertUseCase) *AlertHandler {
	return &AlertHandler{alerts: alerts}
}

// List godoc
// @Summary      Listar alertas de stock
// @Tags         alerts
// @Produce      json
// @Param        status       query  string  false  "pending, acknowledged o resolved"
// @Param        item_id      query  string  false  "filtrar por ítem"
// @Param        location_id  query  string  false  "filtrar por ubicación"
// @Param        type         query  string  false  "low_stock, out_of_stock, overstock, expiry_warning, expiry_critical"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/alerts [get]
func (h *AlertHandler) List(c *fiber.Ctx) error {
	filter := repository.AlertFilter{
		ItemID:     c.Query("item_id"),
		LocationID: c.Query("location_id"),
		Type:       c.Query("type"),
		Status:     c.Query("status"),
		Limit:      c.QueryInt("limit", 100),
		Offset:     c.QueryInt("offset", 0),
	}
	alerts, err := h.alerts.List(c.Context(), filter)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.AlertDTO, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, dto.NewAlertDTO(a))
	}
	return c.JSON(fiber.Map{"total": len(out), "alerts": out})
}

// Acknowledge godoc
// @Summary      Reconocer una alerta pendiente
// @Description  Idempotente: reconocer una alerta ya reconocida devuelve su estado actual sin modificarlo.
// @Tags         alerts
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID de la alerta"
// @Param        body  body  dto.AcknowledgeAlertRequest  true  "usuario que reconoce"
// @Success      200   {object}  dto.AlertDTO
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/alerts/{id}/acknowledge [post]
func (h *AlertHandler) Acknowledge(c *fiber.Ctx) error {
	var in dto.AcknowledgeAlertRequest
	if err := parseAndValidate(c, &in); err != nil {
		return requestError(c, err)
	}
	alert, err := h.alerts.Acknowledge(c.Context(), c.Params("id"), in.PerformedBy)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.NewAlertDTO(alert))
}
