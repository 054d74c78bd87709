// Package http expone el núcleo de stock por HTTP con Fiber: handlers REST,
// stream websocket de alertas y el router que los ata.
package http

import (
	"github.com/gofiber/fiber/v2"
)

// RouterDeps dependencias que el router necesita para montar las rutas.
type RouterDeps struct {
	Stock  *StockHandler
	Alerts *AlertHandler
	Hub    *AlertHub
}

// Router registra todas las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	stock := api.Group("/stock")
	stock.Post("/adjustments", deps.Stock.Adjust)
	stock.Post("/transfers", deps.Stock.Transfer)
	stock.Get("/transfers/:groupID", deps.Stock.GetTransferGroup)
	stock.Post("/entries", deps.Stock.Receive)
	stock.Post("/exits", deps.Stock.Issue)
	stock.Get("/movements", deps.Stock.ListMovements)
	stock.Get("/records/:itemID/:locationID", deps.Stock.GetRecord)
	stock.Get("/records/:itemID/:locationID/reconcile", deps.Stock.Reconcile)

	alerts := api.Group("/alerts")
	alerts.Get("/", deps.Alerts.List)
	alerts.Post("/:id/acknowledge", deps.Alerts.Acknowledge)
	if deps.Hub != nil {
		alerts.Get("/stream", UpgradeMiddleware, deps.Hub.StreamHandler())
	}
}
