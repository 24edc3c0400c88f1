package analytics_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/analytics"
	"github.com/jhoicas/Ventas-api/internal/application/session"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/memory"
)

func newDashboard(store *memory.Store) *analytics.DashboardUseCase {
	return analytics.NewDashboardUseCase(store.Profiles(), store.Users(), store.Sales(), store.Stock(), store.Customers())
}

func TestSummary_Tarjetas(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	owner := "user-1"
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.Profiles().Create(ctx, &entity.Profile{ID: "p1", UserID: owner, FirstName: "Ana", Email: "ana@example.com"}))
	for i := 0; i < 6; i++ {
		c, err := entity.NewCustomer(fmt.Sprintf("c%d", i), owner, fmt.Sprintf("Cliente %d", i),
			"c@example.com", "", now.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
		require.NoError(t, store.Customers().Create(ctx, c))
	}
	for _, s := range []entity.Sale{
		{ID: "s1", UserID: owner, CustomerID: "c0", Status: entity.SaleStatusCompleted, TotalAmount: decimal.RequireFromString("10.50")},
		{ID: "s2", UserID: owner, CustomerID: "c1", Status: entity.SaleStatusCompleted, TotalAmount: decimal.NewFromInt(4)},
		{ID: "s3", UserID: owner, CustomerID: "c1", Status: entity.SaleStatusPending, TotalAmount: decimal.NewFromInt(100)},
		{ID: "s4", UserID: "otro", CustomerID: "x", Status: entity.SaleStatusCompleted, TotalAmount: decimal.NewFromInt(999)},
	} {
		s := s
		s.SaleDate = now
		require.NoError(t, store.Sales().Create(ctx, &s))
	}
	require.NoError(t, store.Stock().Create(ctx, &entity.StockEntry{ID: "st1", UserID: owner, ProductID: "a", Quantity: decimal.NewFromInt(8)}))
	require.NoError(t, store.Stock().Create(ctx, &entity.StockEntry{ID: "st2", UserID: owner, ProductID: "b", Quantity: decimal.NewFromInt(-3)}))

	sum, err := newDashboard(store).Summary(ctx, session.Session{UserID: owner, Email: "ana@example.com"})
	require.NoError(t, err)

	assert.Equal(t, "Ana", sum.DisplayName)
	assert.Equal(t, "14.50", sum.CompletedSales.StringFixed(2))
	assert.Equal(t, 1, sum.PendingSales)
	assert.True(t, decimal.NewFromInt(5).Equal(sum.StockQuantity))
	assert.Equal(t, 6, sum.TotalCustomers)
	require.Len(t, sum.NewestCustomers, 5)
	assert.Equal(t, "c5", sum.NewestCustomers[0].ID)
}

func TestSummary_SinPerfilUsaEmail(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Users().Create(ctx, &entity.User{ID: "user-1", Email: "luis@example.com"}))

	sum, err := newDashboard(store).Summary(ctx, session.Session{UserID: "user-1", Email: "luis@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "luis@example.com", sum.DisplayName)
	assert.NotNil(t, sum.NewestCustomers)
	assert.True(t, sum.CompletedSales.IsZero())
}
