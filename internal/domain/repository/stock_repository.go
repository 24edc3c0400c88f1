package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// StockRepository puerto de persistencia de stock.
//
// UpdateQuantity escribe un valor absoluto (no un incremento): quien lo llama
// leyó antes la cantidad y calculó la nueva. Sin bloqueo no hay aislamiento entre
// dos escrituras concurrentes sobre la misma entrada.
type StockRepository interface {
	// FindByProduct devuelve (nil, nil) si el producto no tiene entrada de stock.
	FindByProduct(ctx context.Context, userID, productID string) (*entity.StockEntry, error)
	GetByID(ctx context.Context, userID, id string) (*entity.StockEntry, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.StockEntry, error)
	Create(ctx context.Context, entry *entity.StockEntry) error
	UpdateQuantity(ctx context.Context, userID, id string, quantity decimal.Decimal) error
	Delete(ctx context.Context, userID, id string) error
	// ListNegative lista entradas con cantidad menor a cero de todos los usuarios.
	ListNegative(ctx context.Context) ([]*entity.StockEntry, error)
	TotalQuantity(ctx context.Context, userID string) (decimal.Decimal, error)
}
