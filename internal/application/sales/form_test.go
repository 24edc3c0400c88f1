package sales_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/internal/application/session"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var testSession = session.Session{UserID: "user-1", Email: "dueno@tienda.com"}

func TestDraft_SelectProductCopiaPrecioYRecalcula(t *testing.T) {
	d := sales.NewDraft(time.Date(2025, 5, 10, 15, 30, 0, 0, time.UTC))
	assert.Equal(t, entity.SaleStatusCompleted, d.Status)
	assert.Equal(t, "2025-05-10", d.SaleDate.Format("2006-01-02"))

	i := d.AddItem()
	assert.True(t, d.Lines[i].Quantity.Equal(decimal.NewFromInt(1)), "una línea nueva arranca con cantidad 1")

	require.NoError(t, d.SetQuantity(i, dec("3")))
	require.NoError(t, d.SelectProduct(i, &entity.Product{ID: "p1", Name: "Café", Price: dec("2.50")}))

	assert.Equal(t, "p1", d.Lines[i].ProductID)
	assert.True(t, dec("2.50").Equal(d.Lines[i].PriceAtSale))
	assert.True(t, dec("7.50").Equal(d.Lines[i].TotalItemAmount))
}

func TestDraft_SetPriceYTotal(t *testing.T) {
	d := sales.NewDraft(time.Now())
	a := d.AddItem()
	b := d.AddItem()
	require.NoError(t, d.SetPrice(a, dec("1.333")))
	require.NoError(t, d.SetQuantity(a, dec("3")))
	require.NoError(t, d.SetPrice(b, dec("10")))

	assert.True(t, dec("4.00").Equal(d.Lines[a].TotalItemAmount), "3 × 1.333 = 3.999 → 4.00")
	assert.True(t, dec("14.00").Equal(d.Total()))

	require.NoError(t, d.RemoveItem(a))
	assert.Len(t, d.Lines, 1)
	assert.True(t, dec("10").Equal(d.Total()))

	assert.Error(t, d.RemoveItem(5))
}

func TestDraft_ValidateOrden(t *testing.T) {
	validLine := func(d *sales.Draft) {
		i := d.AddItem()
		_ = d.SelectProduct(i, &entity.Product{ID: "p1", Name: "Café", Price: dec("2")})
	}

	cases := []struct {
		name    string
		sess    session.Session
		prepare func(d *sales.Draft)
		msg     string
	}{
		{"sin usuario", session.Session{}, func(d *sales.Draft) {}, "usuario no autenticado"},
		{"sin cliente y sin ítems", testSession, func(d *sales.Draft) {}, "el cliente es obligatorio"},
		{"sin ítems", testSession, func(d *sales.Draft) { d.CustomerID = "c1" }, "agregue al menos un ítem a la venta"},
		{"cantidad cero", testSession, func(d *sales.Draft) {
			d.CustomerID = "c1"
			validLine(d)
			_ = d.SetQuantity(0, decimal.Zero)
		}, "cantidad inválida para uno o más ítems"},
		{"precio cero y sin producto", testSession, func(d *sales.Draft) {
			d.CustomerID = "c1"
			d.AddItem()
		}, "precio inválido para uno o más ítems"},
		{"sin producto", testSession, func(d *sales.Draft) {
			d.CustomerID = "c1"
			i := d.AddItem()
			_ = d.SetPrice(i, dec("5"))
		}, "seleccione un producto para todos los ítems de la venta"},
		{"cantidad con 4 decimales", testSession, func(d *sales.Draft) {
			d.CustomerID = "c1"
			validLine(d)
			_ = d.SetQuantity(0, dec("1.0005"))
		}, "la cantidad admite como máximo 3 decimales"},
		{"precio con 3 decimales", testSession, func(d *sales.Draft) {
			d.CustomerID = "c1"
			validLine(d)
			_ = d.SetPrice(0, dec("5.555"))
		}, "el precio admite como máximo 2 decimales"},
		{"estado inválido", testSession, func(d *sales.Draft) {
			d.CustomerID = "c1"
			d.Status = "refunded"
			validLine(d)
		}, `estado de venta inválido: "refunded"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := sales.NewDraft(time.Now())
			tc.prepare(d)
			err := d.Validate(tc.sess)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput))
			assert.Equal(t, tc.msg, domain.ValidationMessage(err))
		})
	}

	d := sales.NewDraft(time.Now())
	d.CustomerID = "c1"
	validLine(d)
	require.NoError(t, d.SetQuantity(0, dec("1.250")))
	assert.NoError(t, d.Validate(testSession), "ceros a la derecha no cuentan como decimales")
}

func TestDraftFromSale(t *testing.T) {
	sale := &entity.Sale{
		CustomerID: "c1",
		Status:     entity.SaleStatusPending,
		Items: []entity.SaleItem{
			{ProductID: "p1", Quantity: dec("2"), PriceAtSale: dec("3"), TotalItemAmount: dec("6")},
		},
	}
	d := sales.DraftFromSale(sale)
	assert.Equal(t, "c1", d.CustomerID)
	assert.Equal(t, entity.SaleStatusPending, d.Status)
	require.Len(t, d.Lines, 1)
	assert.True(t, dec("6").Equal(d.Total()))
}
