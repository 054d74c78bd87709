package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/application/alerting"
	appstock "github.com/jhoicas/Kardex-api/internal/application/stock"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/memory"
	httprouter "github.com/jhoicas/Kardex-api/internal/interfaces/http"
)

// newTestApp arma la API completa sobre el backend en memoria, con el ítem
// "item-x" (reorderLevel=5) y las ubicaciones "loc-a" y "loc-b".
func newTestApp(t *testing.T) (*fiber.App, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	store.SeedItem(entity.ItemMaster{
		ID:           "item-x",
		SKU:          "SKU-X",
		Name:         "Ítem X",
		ReorderLevel: decimal.NewFromInt(5),
		Status:       entity.ItemStatusActive,
	})
	store.SeedLocation(entity.Location{ID: "loc-a", Name: "Bodega A"})
	store.SeedLocation(entity.Location{ID: "loc-b", Name: "Bodega B"})

	engine := alerting.NewEngine(30, 7)
	movementUC := appstock.NewMovementUseCase(
		memory.NewTxRunner(store), store.Items(), store.Locations(), engine, alerting.NopNotifier{},
	)
	queryUC := appstock.NewQueryUseCase(store.Records(), store.Movements(), store.Items())
	reconcileUC := appstock.NewReconcileUseCase(store.Movements(), store.Records())
	alertUC := alerting.NewAlertUseCase(store.Alerts())

	app := fiber.New()
	httprouter.Router(app, httprouter.RouterDeps{
		Stock:  httprouter.NewStockHandler(movementUC, queryUC, reconcileUC),
		Alerts: httprouter.NewAlertHandler(alertUC),
	})
	return app, store
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "respuesta no es JSON: %s", raw)
	}
	return resp, decoded
}

func receiveStock(t *testing.T, app *fiber.App, locationID string, quantity int) {
	t.Helper()
	resp, _ := doJSON(t, app, http.MethodPost, "/api/stock/entries", map[string]any{
		"item_id":      "item-x",
		"location_id":  locationID,
		"quantity":     quantity,
		"performed_by": "tester",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

// TestAdjustEndpoint_Creado ajuste válido responde 201 con movimiento y registro.
func TestAdjustEndpoint_Creado(t *testing.T) {
	app, _ := newTestApp(t)
	receiveStock(t, app, "loc-a", 10)

	resp, body := doJSON(t, app, http.MethodPost, "/api/stock/adjustments", map[string]any{
		"item_id":      "item-x",
		"location_id":  "loc-a",
		"delta":        -2,
		"reason":       "damaged",
		"performed_by": "tester",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	record := body["record"].(map[string]any)
	assert.Equal(t, "8", record["quantity"], "la cantidad debe bajar a 8")
	movement := body["movement"].(map[string]any)
	assert.Equal(t, "adjustment", movement["type"])
}

// TestAdjustEndpoint_Validacion body sin razón responde 400 sin tocar estado.
func TestAdjustEndpoint_Validacion(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/api/stock/adjustments", map[string]any{
		"item_id":      "item-x",
		"location_id":  "loc-a",
		"delta":        -2,
		"performed_by": "tester",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body["code"])
}

// TestTransferEndpoint_Insuficiente trasladar más del disponible responde 409
// con el código INSUFFICIENT_STOCK y no cambia ningún registro.
func TestTransferEndpoint_Insuficiente(t *testing.T) {
	app, _ := newTestApp(t)
	receiveStock(t, app, "loc-a", 8)

	resp, body := doJSON(t, app, http.MethodPost, "/api/stock/transfers", map[string]any{
		"item_id":          "item-x",
		"from_location_id": "loc-a",
		"to_location_id":   "loc-b",
		"quantity":         9,
		"performed_by":     "tester",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])

	resp, record := doJSON(t, app, http.MethodGet, "/api/stock/records/item-x/loc-a", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "8", record["quantity"], "el origen no debe cambiar tras el fallo")
}

// TestTransferEndpoint_Exitoso responde 201 con el par ligado.
func TestTransferEndpoint_Exitoso(t *testing.T) {
	app, _ := newTestApp(t)
	receiveStock(t, app, "loc-a", 10)

	resp, body := doJSON(t, app, http.MethodPost, "/api/stock/transfers", map[string]any{
		"item_id":          "item-x",
		"from_location_id": "loc-a",
		"to_location_id":   "loc-b",
		"quantity":         4,
		"performed_by":     "tester",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	groupID := body["transfer_group_id"].(string)
	require.NotEmpty(t, groupID)
	assert.Len(t, body["movements"], 2)

	resp, group := doJSON(t, app, http.MethodGet, "/api/stock/transfers/"+groupID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, group["movements"], 2)
}

// TestGetRecordEndpoint_ItemDesconocido responde 404 con código propio.
func TestGetRecordEndpoint_ItemDesconocido(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/api/stock/records/no-existe/loc-a", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "UNKNOWN_ITEM_OR_LOCATION", body["code"])
}

// TestGetRecordEndpoint_EstadoDerivado el snapshot incluye disponible y estado.
func TestGetRecordEndpoint_EstadoDerivado(t *testing.T) {
	app, store := newTestApp(t)
	receiveStock(t, app, "loc-a", 10)
	store.SetReservedQuantity("item-x", "loc-a", decimal.NewFromInt(6))

	resp, body := doJSON(t, app, http.MethodGet, "/api/stock/records/item-x/loc-a", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "10", body["quantity"])
	assert.Equal(t, "6", body["reserved_quantity"])
	assert.Equal(t, "4", body["available_quantity"])
	assert.Equal(t, "LOW_STOCK", body["status"], "4 ≤ reorderLevel(5) debe derivar LOW_STOCK")
}

// TestAlertEndpoints_FlujoCompleto un ajuste que dispara low_stock aparece en
// el listado y se puede reconocer; el segundo reconocimiento es idempotente.
func TestAlertEndpoints_FlujoCompleto(t *testing.T) {
	app, _ := newTestApp(t)
	receiveStock(t, app, "loc-a", 10)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/stock/adjustments", map[string]any{
		"item_id":      "item-x",
		"location_id":  "loc-a",
		"delta":        -6,
		"reason":       "lost",
		"performed_by": "tester",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, list := doJSON(t, app, http.MethodGet, "/api/alerts/?status=pending", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	alerts := list["alerts"].([]any)
	require.Len(t, alerts, 1)
	alert := alerts[0].(map[string]any)
	assert.Equal(t, "low_stock", alert["type"])
	alertID := alert["id"].(string)

	ackPath := fmt.Sprintf("/api/alerts/%s/acknowledge", alertID)
	resp, acked := doJSON(t, app, http.MethodPost, ackPath, map[string]any{"performed_by": "supervisor"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "acknowledged", acked["status"])
	assert.Equal(t, "supervisor", acked["acknowledged_by"])

	resp, again := doJSON(t, app, http.MethodPost, ackPath, map[string]any{"performed_by": "otro"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "supervisor", again["acknowledged_by"], "el segundo ack no debe pisar al primero")
}

// TestReconcileEndpoint_EnSincronia el reporte de una clave sana viene in_sync.
func TestReconcileEndpoint_EnSincronia(t *testing.T) {
	app, _ := newTestApp(t)
	receiveStock(t, app, "loc-a", 10)

	resp, report := doJSON(t, app, http.MethodGet, "/api/stock/records/item-x/loc-a/reconcile", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, report["in_sync"])
	assert.Equal(t, float64(1), report["movement_count"])

	recomputed := report["recomputed"].(map[string]any)
	assert.Equal(t, "10", recomputed["quantity"])
}

// TestListMovementsEndpoint_Filtros el listado filtra por tipo de movimiento.
func TestListMovementsEndpoint_Filtros(t *testing.T) {
	app, _ := newTestApp(t)
	receiveStock(t, app, "loc-a", 10)
	resp, _ := doJSON(t, app, http.MethodPost, "/api/stock/adjustments", map[string]any{
		"item_id":      "item-x",
		"location_id":  "loc-a",
		"delta":        -1,
		"reason":       "damaged",
		"performed_by": "tester",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodGet, "/api/stock/movements?type=adjustment", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["total"])

	resp, body = doJSON(t, app, http.MethodGet, "/api/stock/movements?item_id=item-x", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), body["total"])
}
