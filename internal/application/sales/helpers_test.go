package sales_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/memory"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

var errConnLost = errors.New("conexión perdida")

// fixture almacén en memoria con un cliente, el producto P (con 10 en stock)
// y el producto Q (sin entrada de stock).
type fixture struct {
	store    *memory.Store
	uc       *sales.UseCase
	customer *entity.Customer
	p        *entity.Product
	q        *entity.Product
	stockP   *entity.StockEntry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithRunner(t, nil)
}

func newFixtureWithRunner(t *testing.T, runner func(*memory.Store) sales.Runner) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	now := time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)

	customer, err := entity.NewCustomer("cust-1", testSession.UserID, "Ana Pérez", "ana@correo.com", "", now)
	require.NoError(t, err)
	require.NoError(t, store.Customers().Create(ctx, customer))

	p, err := entity.NewProduct("prod-p", testSession.UserID, "Café molido", dec("2.50"), now)
	require.NoError(t, err)
	require.NoError(t, store.Products().Create(ctx, p))

	q, err := entity.NewProduct("prod-q", testSession.UserID, "Té verde", dec("4"), now)
	require.NoError(t, err)
	require.NoError(t, store.Products().Create(ctx, q))

	stockP, err := entity.NewStockEntry("stock-p", testSession.UserID, p.ID, dec("10"), now)
	require.NoError(t, err)
	require.NoError(t, store.Stock().Create(ctx, stockP))

	var r sales.Runner = memory.NewRunner(store)
	if runner != nil {
		r = runner(store)
	}
	uc := sales.NewUseCase(r, store.Sales(), store.Products(), store.Customers(), logger.Nop())
	return &fixture{store: store, uc: uc, customer: customer, p: p, q: q, stockP: stockP}
}

func (f *fixture) stockOf(t *testing.T, productID string) *entity.StockEntry {
	t.Helper()
	e, err := f.store.Stock().FindByProduct(context.Background(), testSession.UserID, productID)
	require.NoError(t, err)
	return e
}

func (f *fixture) quantityOf(t *testing.T, productID string) decimal.Decimal {
	t.Helper()
	e := f.stockOf(t, productID)
	require.NotNil(t, e, "se esperaba entrada de stock para %s", productID)
	return e.Quantity
}

// flakyStock falla UpdateQuantity o FindByProduct a pedido.
type flakyStock struct {
	repository.StockRepository
	failFind   bool
	failUpdate bool
}

func (f *flakyStock) FindByProduct(ctx context.Context, userID, productID string) (*entity.StockEntry, error) {
	if f.failFind {
		return nil, errConnLost
	}
	return f.StockRepository.FindByProduct(ctx, userID, productID)
}

func (f *flakyStock) UpdateQuantity(ctx context.Context, userID, id string, q decimal.Decimal) error {
	if f.failUpdate {
		return errConnLost
	}
	return f.StockRepository.UpdateQuantity(ctx, userID, id, q)
}

type stubRunner struct {
	stock repository.StockRepository
	sales repository.SaleRepository
}

func (r stubRunner) RunSales(_ context.Context, fn func(repository.StockRepository, repository.SaleRepository) error) error {
	return fn(r.stock, r.sales)
}
