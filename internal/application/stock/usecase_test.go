package stock_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/application/alerting"
	appstock "github.com/jhoicas/Kardex-api/internal/application/stock"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/memory"
)

const (
	testItemID = "item-x"
	testLocA   = "loc-a"
	testLocB   = "loc-b"
	testUser   = "tester"
)

type fixture struct {
	store   *memory.Store
	usecase *appstock.MovementUseCase
}

// newFixture arma el caso de uso sobre el backend en memoria, con el ítem X
// (reorderLevel=5) y las ubicaciones A y B sembradas.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	store.SeedItem(entity.ItemMaster{
		ID:           testItemID,
		SKU:          "SKU-X",
		Name:         "Ítem X",
		ReorderLevel: decimal.NewFromInt(5),
		Status:       entity.ItemStatusActive,
	})
	store.SeedLocation(entity.Location{ID: testLocA, Name: "Bodega A", Status: "active"})
	store.SeedLocation(entity.Location{ID: testLocB, Name: "Bodega B", Status: "active"})

	engine := alerting.NewEngine(30, 7)
	uc := appstock.NewMovementUseCase(
		memory.NewTxRunner(store), store.Items(), store.Locations(), engine, alerting.NopNotifier{},
	)
	return &fixture{store: store, usecase: uc}
}

// seedStock deja la clave con la cantidad y reserva indicadas, entrando el
// stock por el flujo normal de recepción.
func (f *fixture) seedStock(t *testing.T, locationID string, quantity, reserved int64) {
	t.Helper()
	_, err := f.usecase.ReceiveStock(context.Background(), appstock.ReceiveStockInput{
		ItemID:      testItemID,
		LocationID:  locationID,
		Quantity:    decimal.NewFromInt(quantity),
		PerformedBy: testUser,
	})
	require.NoError(t, err)
	if reserved != 0 {
		f.store.SetReservedQuantity(testItemID, locationID, decimal.NewFromInt(reserved))
	}
}

func (f *fixture) record(t *testing.T, locationID string) *entity.StockRecord {
	t.Helper()
	rec, err := f.store.Records().Get(context.Background(), testItemID, locationID)
	require.NoError(t, err)
	return rec
}

func (f *fixture) alertsByStatus(t *testing.T, status string) []*entity.StockAlert {
	t.Helper()
	alerts, err := f.store.Alerts().List(context.Background(), repository.AlertFilter{Status: status})
	require.NoError(t, err)
	return alerts
}

// TestAdjustStock_AjusteNegativoEmiteLowStock reproduce el caso base: X en A
// con cantidad=10, reserva=2 (disponible=8), reorderLevel=5. Un ajuste de -5
// por daño deja disponible=3 y debe emitir low_stock pendiente (3 ≤ 5).
func TestAdjustStock_AjusteNegativoEmiteLowStock(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, testLocA, 10, 2)

	result, err := f.usecase.AdjustStock(context.Background(), appstock.AdjustStockInput{
		ItemID:      testItemID,
		LocationID:  testLocA,
		Delta:       decimal.NewFromInt(-5),
		Reason:      entity.AdjustmentReasonDamaged,
		PerformedBy: testUser,
	})
	require.NoError(t, err)

	assert.True(t, result.Record.Quantity.Equal(decimal.NewFromInt(5)),
		"la cantidad debe quedar en 5, quedó %s", result.Record.Quantity)
	assert.True(t, result.Record.Available().Equal(decimal.NewFromInt(3)),
		"el disponible debe quedar en 3, quedó %s", result.Record.Available())

	pending := f.alertsByStatus(t, entity.AlertStatusPending)
	require.Len(t, pending, 1, "debe haber exactamente una alerta pendiente")
	assert.Equal(t, entity.AlertTypeLowStock, pending[0].Type)
	assert.True(t, pending[0].CurrentValue.Equal(decimal.NewFromInt(3)))
}

// TestAdjustStock_OutOfStockSubsumeLowStock continúa el caso anterior: un
// segundo ajuste de -3 deja disponible=0, emite out_of_stock y resuelve en
// automático la low_stock previa (subsunción).
func TestAdjustStock_OutOfStockSubsumeLowStock(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, testLocA, 10, 2)
	ctx := context.Background()

	_, err := f.usecase.AdjustStock(ctx, appstock.AdjustStockInput{
		ItemID: testItemID, LocationID: testLocA,
		Delta: decimal.NewFromInt(-5), Reason: entity.AdjustmentReasonDamaged, PerformedBy: testUser,
	})
	require.NoError(t, err)

	result, err := f.usecase.AdjustStock(ctx, appstock.AdjustStockInput{
		ItemID: testItemID, LocationID: testLocA,
		Delta: decimal.NewFromInt(-3), Reason: entity.AdjustmentReasonLost, PerformedBy: testUser,
	})
	require.NoError(t, err)
	assert.True(t, result.Record.Available().IsZero())

	pending := f.alertsByStatus(t, entity.AlertStatusPending)
	require.Len(t, pending, 1, "solo debe quedar pendiente la out_of_stock")
	assert.Equal(t, entity.AlertTypeOutOfStock, pending[0].Type)

	resolved := f.alertsByStatus(t, entity.AlertStatusResolved)
	require.Len(t, resolved, 1)
	assert.Equal(t, entity.AlertTypeLowStock, resolved[0].Type,
		"la low_stock previa debe resolverse al quedar subsumida")
}

// TestTransferStock_Exitoso traslada 5 unidades de A a B con disponible=8:
// A queda con disponible 3, B sube 5 y el par de movimientos comparte
// transfer_group_id con deltas que suman cero.
func TestTransferStock_Exitoso(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, testLocA, 10, 2)

	result, err := f.usecase.TransferStock(context.Background(), appstock.TransferStockInput{
		ItemID:         testItemID,
		FromLocationID: testLocA,
		ToLocationID:   testLocB,
		Quantity:       decimal.NewFromInt(5),
		PerformedBy:    testUser,
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.TransferGroupID)
	require.Len(t, result.Movements, 2)

	assert.True(t, result.Origin.Available().Equal(decimal.NewFromInt(3)),
		"A debe quedar con disponible 3")
	assert.True(t, result.Destination.Quantity.Equal(decimal.NewFromInt(5)),
		"B debe subir a 5")

	// Conservación: los deltas del par suman cero.
	sum := decimal.Zero
	for _, m := range result.Movements {
		assert.Equal(t, entity.MovementTypeTransfer, m.Type)
		assert.Equal(t, result.TransferGroupID, m.TransferGroupID)
		sum = sum.Add(m.QuantityDelta)
	}
	assert.True(t, sum.IsZero(), "los deltas del traslado deben sumar cero, sumaron %s", sum)

	linked, err := f.store.Movements().ListByTransferGroup(context.Background(), result.TransferGroupID)
	require.NoError(t, err)
	assert.Len(t, linked, 2, "el grupo de traslado debe tener exactamente dos movimientos")
}

// TestTransferStock_InsuficienteNoDejaRastro intenta trasladar 9 con
// disponible=8: debe fallar con ErrInsufficientStock y no dejar ningún estado
// parcial, ni en registros ni en el libro.
func TestTransferStock_InsuficienteNoDejaRastro(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, testLocA, 10, 2)
	ctx := context.Background()

	movementsBefore, err := f.store.Movements().List(ctx, repository.MovementFilter{Limit: 100})
	require.NoError(t, err)

	_, err = f.usecase.TransferStock(ctx, appstock.TransferStockInput{
		ItemID:         testItemID,
		FromLocationID: testLocA,
		ToLocationID:   testLocB,
		Quantity:       decimal.NewFromInt(9),
		PerformedBy:    testUser,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.True(t, f.record(t, testLocA).Quantity.Equal(decimal.NewFromInt(10)),
		"A no debe cambiar")
	assert.True(t, f.record(t, testLocB).Quantity.IsZero(),
		"B no debe cambiar")

	movementsAfter, err := f.store.Movements().List(ctx, repository.MovementFilter{Limit: 100})
	require.NoError(t, err)
	assert.Len(t, movementsAfter, len(movementsBefore),
		"no debe persistirse ningún movimiento del traslado fallido")
}

// TestAdjustStock_RechazaDisponibleNegativo verifica que un ajuste que dejaría
// el disponible por debajo de cero falla aunque la cantidad siga positiva.
func TestAdjustStock_RechazaDisponibleNegativo(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, testLocA, 10, 4) // disponible = 6

	_, err := f.usecase.AdjustStock(context.Background(), appstock.AdjustStockInput{
		ItemID: testItemID, LocationID: testLocA,
		Delta: decimal.NewFromInt(-7), Reason: entity.AdjustmentReasonLost, PerformedBy: testUser,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, f.record(t, testLocA).Quantity.Equal(decimal.NewFromInt(10)))
}

// TestAdjustStock_CorreccionConOverridePermiteNegativo verifica la única vía
// para dejar cantidad negativa: corrección de drift con override explícito.
func TestAdjustStock_CorreccionConOverridePermiteNegativo(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, testLocA, 2, 0)
	ctx := context.Background()

	// Sin override la corrección respeta el piso.
	_, err := f.usecase.AdjustStock(ctx, appstock.AdjustStockInput{
		ItemID: testItemID, LocationID: testLocA,
		Delta: decimal.NewFromInt(-5), Reason: entity.AdjustmentReasonCorrection, PerformedBy: testUser,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	result, err := f.usecase.AdjustStock(ctx, appstock.AdjustStockInput{
		ItemID: testItemID, LocationID: testLocA,
		Delta: decimal.NewFromInt(-5), Reason: entity.AdjustmentReasonCorrection,
		Override: true, PerformedBy: testUser,
	})
	require.NoError(t, err)
	assert.True(t, result.Record.Quantity.Equal(decimal.NewFromInt(-3)))

	// Override con cualquier otra razón no desbloquea el piso.
	_, err = f.usecase.AdjustStock(ctx, appstock.AdjustStockInput{
		ItemID: testItemID, LocationID: testLocA,
		Delta: decimal.NewFromInt(-5), Reason: entity.AdjustmentReasonLost,
		Override: true, PerformedBy: testUser,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
}

// TestAdjustStock_Validaciones cubre los rechazos de entrada: delta cero,
// razón fuera de catálogo, ítem y ubicación desconocidos.
func TestAdjustStock_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.usecase.AdjustStock(ctx, appstock.AdjustStockInput{
		ItemID: testItemID, LocationID: testLocA,
		Delta: decimal.Zero, Reason: entity.AdjustmentReasonOther, PerformedBy: testUser,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidMovement, "delta cero debe rechazarse")

	_, err = f.usecase.AdjustStock(ctx, appstock.AdjustStockInput{
		ItemID: testItemID, LocationID: testLocA,
		Delta: decimal.NewFromInt(1), Reason: "inventado", PerformedBy: testUser,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidMovement, "razón fuera de catálogo debe rechazarse")

	_, err = f.usecase.AdjustStock(ctx, appstock.AdjustStockInput{
		ItemID: "no-existe", LocationID: testLocA,
		Delta: decimal.NewFromInt(1), Reason: entity.AdjustmentReasonFound, PerformedBy: testUser,
	})
	assert.ErrorIs(t, err, domain.ErrUnknownItemOrLocation)

	_, err = f.usecase.AdjustStock(ctx, appstock.AdjustStockInput{
		ItemID: testItemID, LocationID: "no-existe",
		Delta: decimal.NewFromInt(1), Reason: entity.AdjustmentReasonFound, PerformedBy: testUser,
	})
	assert.ErrorIs(t, err, domain.ErrUnknownItemOrLocation)
}

// TestTransferStock_MismaUbicacion rechaza origen igual a destino.
func TestTransferStock_MismaUbicacion(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, testLocA, 10, 0)

	_, err := f.usecase.TransferStock(context.Background(), appstock.TransferStockInput{
		ItemID:         testItemID,
		FromLocationID: testLocA,
		ToLocationID:   testLocA,
		Quantity:       decimal.NewFromInt(1),
		PerformedBy:    testUser,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidMovement)
}

// TestIssueStock_InsuficienteYExitoso cubre la salida de mercancía: falla sin
// disponible suficiente y descuenta cuando alcanza.
func TestIssueStock_InsuficienteYExitoso(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, testLocA, 10, 8) // disponible = 2
	ctx := context.Background()

	_, err := f.usecase.IssueStock(ctx, appstock.IssueStockInput{
		ItemID: testItemID, LocationID: testLocA,
		Quantity: decimal.NewFromInt(3), PerformedBy: testUser,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	result, err := f.usecase.IssueStock(ctx, appstock.IssueStockInput{
		ItemID: testItemID, LocationID: testLocA,
		Quantity: decimal.NewFromInt(2), PerformedBy: testUser,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeOut, result.Movement.Type)
	assert.True(t, result.Record.Quantity.Equal(decimal.NewFromInt(8)))
}

// TestSecuencia_MonotonicaPorParticion verifica que la secuencia del libro
// crece sin huecos dentro de cada partición (item, ubicación) y que cada
// partición lleva su propio contador.
func TestSecuencia_MonotonicaPorParticion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.usecase.ReceiveStock(ctx, appstock.ReceiveStockInput{
			ItemID: testItemID, LocationID: testLocA,
			Quantity: decimal.NewFromInt(1), PerformedBy: testUser,
		})
		require.NoError(t, err)
	}
	_, err := f.usecase.TransferStock(ctx, appstock.TransferStockInput{
		ItemID: testItemID, FromLocationID: testLocA, ToLocationID: testLocB,
		Quantity: decimal.NewFromInt(2), PerformedBy: testUser,
	})
	require.NoError(t, err)

	byKeyA, err := f.store.Movements().ListByKey(ctx, testItemID, testLocA, 0, 0)
	require.NoError(t, err)
	require.Len(t, byKeyA, 4)
	for i, m := range byKeyA {
		assert.Equal(t, int64(i+1), m.Sequence, "la secuencia de A debe ser 1..4 sin huecos")
	}

	byKeyB, err := f.store.Movements().ListByKey(ctx, testItemID, testLocB, 0, 0)
	require.NoError(t, err)
	require.Len(t, byKeyB, 1)
	assert.Equal(t, int64(1), byKeyB[0].Sequence, "B lleva su propio contador")
}
