package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	appstock "github.com/jhoicas/Kardex-api/internal/application/stock"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// StockHandler maneja las peticiones HTTP del libro de stock: ajustes,
// traslados, entradas/salidas, consultas y reconciliación.
type StockHandler struct {
	movements *appstock.MovementUseCase
	queries   *appstock.QueryUseCase
	reconcile *appstock.ReconcileUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(
	movements *appstock.MovementUseCase,
	queries *appstock.QueryUseCase,
	reconcile *appstock.ReconcileUseCase,
) *StockHandler {
	return &StockHandler{movements: movements, queries: queries, reconcile: reconcile}
}

// Adjust godoc
// @Summary      Ajustar stock de una clave (item, ubicación)
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "delta con signo, razón catalogada, override solo con correction"
// @Success      201   {object}  dto.StockRecordDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/adjustments [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := parseAndValidate(c, &in); err != nil {
		return requestError(c, err)
	}
	result, err := h.movements.AdjustStock(c.Context(), appstock.AdjustStockInput{
		ItemID:      in.ItemID,
		LocationID:  in.LocationID,
		Delta:       in.Delta,
		Reason:      in.Reason,
		Reference:   in.Reference,
		Notes:       in.Notes,
		PerformedBy: in.PerformedBy,
		Override:    in.Override,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"movement": dto.NewMovementDTO(result.Movement),
		"record":   dto.NewStockRecordDTO(result.Record, result.Status),
	})
}

// Transfer godoc
// @Summary      Trasladar stock entre dos ubicaciones
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferStockRequest  true  "cantidad positiva, ubicaciones distintas"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/transfers [post]
func (h *StockHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferStockRequest
	if err := parseAndValidate(c, &in); err != nil {
		return requestError(c, err)
	}
	result, err := h.movements.TransferStock(c.Context(), appstock.TransferStockInput{
		ItemID:         in.ItemID,
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		Quantity:       in.Quantity,
		Reason:         in.Reason,
		PerformedBy:    in.PerformedBy,
	})
	if err != nil {
		return domainError(c, err)
	}
	movements := make([]dto.MovementDTO, 0, len(result.Movements))
	for _, m := range result.Movements {
		movements = append(movements, dto.NewMovementDTO(m))
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"transfer_group_id": result.TransferGroupID,
		"movements":         movements,
	})
}

// Receive registra una entrada de mercancía.
func (h *StockHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveStockRequest
	if err := parseAndValidate(c, &in); err != nil {
		return requestError(c, err)
	}
	result, err := h.movements.ReceiveStock(c.Context(), appstock.ReceiveStockInput{
		ItemID:      in.ItemID,
		LocationID:  in.LocationID,
		Quantity:    in.Quantity,
		Reference:   in.Reference,
		Notes:       in.Notes,
		PerformedBy: in.PerformedBy,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"movement": dto.NewMovementDTO(result.Movement),
		"record":   dto.NewStockRecordDTO(result.Record, result.Status),
	})
}

// Issue registra una salida de mercancía.
func (h *StockHandler) Issue(c *fiber.Ctx) error {
	var in dto.IssueStockRequest
	if err := parseAndValidate(c, &in); err != nil {
		return requestError(c, err)
	}
	result, err := h.movements.IssueStock(c.Context(), appstock.IssueStockInput{
		ItemID:      in.ItemID,
		LocationID:  in.LocationID,
		Quantity:    in.Quantity,
		Reference:   in.Reference,
		Notes:       in.Notes,
		PerformedBy: in.PerformedBy,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"movement": dto.NewMovementDTO(result.Movement),
		"record":   dto.NewStockRecordDTO(result.Record, result.Status),
	})
}

// GetRecord godoc
// @Summary      Snapshot de stock con estado derivado
// @Tags         stock
// @Produce      json
// @Param        itemID      path  string  true  "ID del ítem"
// @Param        locationID  path  string  true  "ID de la ubicación"
// @Success      200  {object}  dto.StockRecordDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/records/{itemID}/{locationID} [get]
func (h *StockHandler) GetRecord(c *fiber.Ctx) error {
	view, err := h.queries.GetStockRecord(c.Context(), c.Params("itemID"), c.Params("locationID"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(view)
}

// ListMovements lista movimientos del libro con filtros por query params.
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	filter := repository.MovementFilter{
		ItemID:          c.Query("item_id"),
		LocationID:      c.Query("location_id"),
		Type:            c.Query("type"),
		TransferGroupID: c.Query("transfer_group_id"),
		Limit:           c.QueryInt("limit", 100),
		Offset:          c.QueryInt("offset", 0),
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			filter.From = &t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			filter.To = &t
		}
	}
	movements, err := h.queries.ListMovements(c.Context(), filter)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(movements), "movements": movements})
}

// GetTransferGroup devuelve el par de movimientos ligados de un traslado.
func (h *StockHandler) GetTransferGroup(c *fiber.Ctx) error {
	movements, err := h.queries.ListTransferGroup(c.Context(), c.Params("groupID"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{"transfer_group_id": c.Params("groupID"), "movements": movements})
}

// Reconcile reconstruye la clave desde el libro y reporta el drift contra la
// proyección viva. Solo diagnóstico: nunca corrige.
func (h *StockHandler) Reconcile(c *fiber.Ctx) error {
	report, err := h.reconcile.Reconstruct(c.Context(), c.Params("itemID"), c.Params("locationID"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ReconcileReportDTO{
		Live:          dto.NewStockRecordDTO(report.Live, ""),
		Recomputed:    dto.NewStockRecordDTO(report.Recomputed, ""),
		MovementCount: report.MovementCount,
		LastSequence:  report.LastSequence,
		InSync:        report.InSync,
		QuantityDrift: report.QuantityDrift,
	})
}
