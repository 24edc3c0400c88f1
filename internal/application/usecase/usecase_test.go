package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/session"
	"github.com/jhoicas/Ventas-api/internal/application/usecase"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/memory"
)

var (
	owner = session.Session{UserID: "user-1"}
	other = session.Session{UserID: "user-2"}
)

// ── Productos ─────────────────────────────────────────────────────────────────

func TestProductUseCase_CreateNormalizaYValida(t *testing.T) {
	uc := usecase.NewProductUseCase(memory.NewStore().Products())
	ctx := context.Background()

	p, err := uc.Create(ctx, owner, dto.ProductRequest{Name: "  Café  ", Price: decimal.RequireFromString("3.456")})
	require.NoError(t, err)
	assert.Equal(t, "Café", p.Name)
	assert.Equal(t, "3.46", p.Price.StringFixed(2))

	_, err = uc.Create(ctx, owner, dto.ProductRequest{Name: " ", Price: decimal.NewFromInt(1)})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = uc.Create(ctx, owner, dto.ProductRequest{Name: "Té", Price: decimal.NewFromInt(-1)})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = uc.Create(ctx, session.Session{}, dto.ProductRequest{Name: "Té"})
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestProductUseCase_AcotadoPorDueno(t *testing.T) {
	uc := usecase.NewProductUseCase(memory.NewStore().Products())
	ctx := context.Background()

	p, err := uc.Create(ctx, owner, dto.ProductRequest{Name: "Pan", Price: decimal.NewFromInt(2)})
	require.NoError(t, err)

	_, err = uc.GetByID(ctx, other, p.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	_, err = uc.Update(ctx, other, p.ID, dto.ProductRequest{Name: "X", Price: decimal.NewFromInt(1)})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	list, err := uc.List(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, list.Items)

	updated, err := uc.Update(ctx, owner, p.ID, dto.ProductRequest{Name: "Pan integral", Price: decimal.NewFromInt(3)})
	require.NoError(t, err)
	assert.Equal(t, "Pan integral", updated.Name)
}

func TestProductUseCase_DeleteReferenciadoEsConflicto(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewProductUseCase(store.Products())
	ctx := context.Background()

	p, err := uc.Create(ctx, owner, dto.ProductRequest{Name: "Leche", Price: decimal.NewFromInt(1)})
	require.NoError(t, err)
	require.NoError(t, store.Stock().Create(ctx, &entity.StockEntry{
		ID: "s1", UserID: owner.UserID, ProductID: p.ID, Quantity: decimal.NewFromInt(3),
	}))

	assert.True(t, errors.Is(uc.Delete(ctx, owner, p.ID), domain.ErrConflict))

	require.NoError(t, store.Stock().Delete(ctx, owner.UserID, "s1"))
	require.NoError(t, uc.Delete(ctx, owner, p.ID))
}

// ── Clientes ──────────────────────────────────────────────────────────────────

func TestCustomerUseCase_NombreYEmailObligatorios(t *testing.T) {
	uc := usecase.NewCustomerUseCase(memory.NewStore().Customers())
	ctx := context.Background()

	_, err := uc.Create(ctx, owner, dto.CustomerRequest{Name: "Ana"})
	require.Error(t, err)
	assert.Equal(t, "nombre y email son obligatorios", domain.ValidationMessage(err))

	c, err := uc.Create(ctx, owner, dto.CustomerRequest{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)
	assert.Empty(t, c.Phone)
}

func TestCustomerUseCase_NewestDevuelveCinco(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewCustomerUseCase(store.Customers())
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		c, err := entity.NewCustomer(fmt.Sprintf("c%d", i), owner.UserID, fmt.Sprintf("Cliente %d", i),
			fmt.Sprintf("c%d@example.com", i), "", base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, err)
		require.NoError(t, store.Customers().Create(ctx, c))
	}

	newest, err := uc.Newest(ctx, owner)
	require.NoError(t, err)
	require.Len(t, newest.Items, usecase.NewestCustomersLimit)
	assert.Equal(t, "c6", newest.Items[0].ID)
	assert.Equal(t, "c2", newest.Items[4].ID)

	all, err := uc.List(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, all.Items, 7)
}

func TestCustomerUseCase_UpdateYDelete(t *testing.T) {
	uc := usecase.NewCustomerUseCase(memory.NewStore().Customers())
	ctx := context.Background()

	c, err := uc.Create(ctx, owner, dto.CustomerRequest{Name: "Luis", Email: "luis@example.com"})
	require.NoError(t, err)

	up, err := uc.Update(ctx, owner, c.ID, dto.CustomerRequest{Name: "Luis M.", Email: "luis@example.com", Phone: " 300 "})
	require.NoError(t, err)
	assert.Equal(t, "300", up.Phone)

	require.NoError(t, uc.Delete(ctx, owner, c.ID))
	_, err = uc.GetByID(ctx, owner, c.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
