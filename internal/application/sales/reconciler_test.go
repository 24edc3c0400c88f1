package sales_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

func TestReconciler_ApplyLuegoRevertRestauraCantidades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rec := sales.NewReconciler(f.store.Stock(), logger.Nop())

	items := []entity.SaleItem{
		{ProductID: f.p.ID, Quantity: dec("3")},
		{ProductID: f.p.ID, Quantity: dec("1.5")},
		{ProductID: f.q.ID, Quantity: dec("2")},
	}

	w, err := rec.Apply(ctx, testSession.UserID, items)
	require.NoError(t, err)
	assert.True(t, dec("5.5").Equal(f.quantityOf(t, f.p.ID)))
	require.Len(t, w, 1)
	assert.Equal(t, sales.WarningStockNotFound, w[0].Code)

	_, err = rec.Revert(ctx, testSession.UserID, items)
	require.NoError(t, err)
	assert.True(t, dec("10").Equal(f.quantityOf(t, f.p.ID)))
	assert.Nil(t, f.stockOf(t, f.q.ID), "nunca se crea una entrada de stock desde la reconciliación")
}

func TestReconciler_ProductoSinStockNoEscribe(t *testing.T) {
	f := newFixture(t)
	rec := sales.NewReconciler(f.store.Stock(), logger.Nop())

	for _, fn := range []func(context.Context, string, []entity.SaleItem) ([]sales.Warning, error){rec.Apply, rec.Revert} {
		w, err := fn(context.Background(), testSession.UserID, []entity.SaleItem{{ProductID: f.q.ID, ProductName: "Té verde", Quantity: dec("4")}})
		require.NoError(t, err)
		require.Len(t, w, 1)
		assert.Equal(t, sales.WarningStockNotFound, w[0].Code)
		assert.Contains(t, w[0].Message, "Té verde")
		assert.Nil(t, f.stockOf(t, f.q.ID))
	}
	assert.True(t, dec("10").Equal(f.quantityOf(t, f.p.ID)))
}

func TestReconciler_StockNegativoSePersisteConAdvertencia(t *testing.T) {
	f := newFixture(t)
	rec := sales.NewReconciler(f.store.Stock(), logger.Nop())

	w, err := rec.Apply(context.Background(), testSession.UserID, []entity.SaleItem{{ProductID: f.p.ID, Quantity: dec("12")}})
	require.NoError(t, err)
	require.Len(t, w, 1)
	assert.Equal(t, sales.WarningNegativeStock, w[0].Code)
	assert.True(t, dec("-2").Equal(w[0].Quantity))
	assert.True(t, dec("-2").Equal(f.quantityOf(t, f.p.ID)))
}

func TestReconciler_StockDeOtroUsuarioNoSeToca(t *testing.T) {
	f := newFixture(t)
	rec := sales.NewReconciler(f.store.Stock(), logger.Nop())

	w, err := rec.Apply(context.Background(), "otro-usuario", []entity.SaleItem{{ProductID: f.p.ID, Quantity: dec("3")}})
	require.NoError(t, err)
	require.Len(t, w, 1)
	assert.Equal(t, sales.WarningStockNotFound, w[0].Code)
	assert.True(t, dec("10").Equal(f.quantityOf(t, f.p.ID)))
}

func TestReconciler_ErrorDeTransporteAborta(t *testing.T) {
	f := newFixture(t)
	flaky := &flakyStock{StockRepository: f.store.Stock(), failUpdate: true}
	rec := sales.NewReconciler(flaky, logger.Nop())

	_, err := rec.Apply(context.Background(), testSession.UserID, []entity.SaleItem{{ProductID: f.p.ID, Quantity: dec("3")}})
	require.Error(t, err)

	var te *sales.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "descontar stock", te.Phase)
	assert.True(t, errors.Is(err, errConnLost))
	assert.True(t, dec("10").Equal(f.quantityOf(t, f.p.ID)))
}

func TestLedger_AdjustEscribeLecturaMasDelta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ledger := sales.NewLedger(f.store.Stock())

	entry, err := ledger.FindByProduct(ctx, testSession.UserID, f.p.ID)
	require.NoError(t, err)
	require.NotNil(t, entry)

	// Otra escritura entre la lectura y el ajuste se pierde: se escribe lectura + delta.
	require.NoError(t, f.store.Stock().UpdateQuantity(ctx, testSession.UserID, entry.ID, dec("50")))
	next, negative, err := ledger.Adjust(ctx, entry, dec("-3"))
	require.NoError(t, err)
	assert.False(t, negative)
	assert.True(t, dec("7").Equal(next))
	assert.True(t, dec("7").Equal(f.quantityOf(t, f.p.ID)))

	next, negative, err = ledger.Adjust(ctx, entry, dec("-9"))
	require.NoError(t, err)
	assert.True(t, negative, "7 - 9 queda por debajo de cero")
	assert.True(t, dec("-2").Equal(next))
}
