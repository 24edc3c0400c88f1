package inventory_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/inventory"
)

func TestValidateManualQuantity(t *testing.T) {
	assert.NoError(t, inventory.ValidateManualQuantity(decimal.Zero))
	assert.NoError(t, inventory.ValidateManualQuantity(decimal.NewFromInt(15)))

	err := inventory.ValidateManualQuantity(decimal.NewFromInt(-1))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	err = inventory.ValidateManualQuantity(decimal.RequireFromString("2.5"))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestShift(t *testing.T) {
	next, neg := inventory.Shift(decimal.NewFromInt(10), decimal.NewFromInt(-3))
	assert.True(t, next.Equal(decimal.NewFromInt(7)))
	assert.False(t, neg)

	next, neg = inventory.Shift(decimal.NewFromInt(2), decimal.NewFromInt(-5))
	assert.True(t, next.Equal(decimal.NewFromInt(-3)))
	assert.True(t, neg)
}
