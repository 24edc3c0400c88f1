package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/memory"
)

func TestSaleRepo_LineasSoloDelDueno(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := store.Sales()
	now := time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)

	sale, err := entity.NewSale("sale-1", "user-1", "cust-1", now, entity.SaleStatusCompleted, "", now)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, sale))
	it, err := entity.NewSaleItem(sale.ID, "prod-1", "", decimal.NewFromInt(2), decimal.NewFromInt(3))
	require.NoError(t, err)
	require.NoError(t, repo.InsertItems(ctx, "user-1", sale.ID, []entity.SaleItem{it}))

	// Otro usuario no ve, no borra ni agrega líneas.
	items, err := repo.ListItems(ctx, "user-2", sale.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	require.NoError(t, repo.DeleteItems(ctx, "user-2", sale.ID))
	err = repo.InsertItems(ctx, "user-2", sale.ID, []entity.SaleItem{it})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	items, err = repo.ListItems(ctx, "user-1", sale.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, decimal.NewFromInt(6).Equal(items[0].TotalItemAmount))

	require.NoError(t, repo.DeleteItems(ctx, "user-1", sale.ID))
	items, err = repo.ListItems(ctx, "user-1", sale.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
