package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// Claves de ordenamiento admitidas por SaleRepository.List.
const (
	SaleSortDate         = "sale_date"
	SaleSortTotal        = "total_amount"
	SaleSortStatus       = "status"
	SaleSortCustomerName = "customer_name"
)

// SaleQuery filtros del listado de ventas.
type SaleQuery struct {
	Search   string // coincide con cliente, estado, notas o nombre de producto (sin distinguir mayúsculas)
	SortBy   string
	SortDesc bool
	Limit    int
	Offset   int
}

// SaleRepository puerto de persistencia de ventas y sus líneas.
// Las líneas nunca se actualizan una a una: se borran todas y se insertan de nuevo.
type SaleRepository interface {
	// Create inserta solo la cabecera.
	Create(ctx context.Context, sale *entity.Sale) error
	// Update actualiza la cabecera; domain.ErrNotFound si no existe para ese usuario.
	Update(ctx context.Context, sale *entity.Sale) error
	// GetByID devuelve la venta con líneas y nombres, o (nil, nil).
	GetByID(ctx context.Context, userID, id string) (*entity.Sale, error)
	List(ctx context.Context, userID string, q SaleQuery) ([]*entity.Sale, int, error)
	// Delete borra cabecera y líneas; domain.ErrNotFound si no existe para ese usuario.
	Delete(ctx context.Context, userID, id string) error
	// ListItems, DeleteItems e InsertItems solo operan sobre ventas de userID.
	// Para una venta ajena ListItems devuelve vacío, DeleteItems no borra nada
	// e InsertItems devuelve domain.ErrNotFound.
	ListItems(ctx context.Context, userID, saleID string) ([]entity.SaleItem, error)
	DeleteItems(ctx context.Context, userID, saleID string) error
	InsertItems(ctx context.Context, userID, saleID string, items []entity.SaleItem) error
	// CompletedTotal suma total_amount de las ventas completadas.
	CompletedTotal(ctx context.Context, userID string) (decimal.Decimal, error)
	CountByStatus(ctx context.Context, userID, status string) (int, error)
}
