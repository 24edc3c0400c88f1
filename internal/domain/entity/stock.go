package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain"
)

// StockEntry cantidad disponible de un producto para un usuario.
// Existe a lo sumo una entrada por (UserID, ProductID). La cantidad puede quedar
// negativa tras una venta; se persiste igual y se informa como advertencia.
type StockEntry struct {
	ID          string
	UserID      string
	ProductID   string
	ProductName string // solo lectura, viene del join con products
	Quantity    decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewStockEntry construye una entrada de stock. id, usuario y producto son obligatorios.
func NewStockEntry(id, userID, productID string, quantity decimal.Decimal, now time.Time) (*StockEntry, error) {
	switch {
	case id == "":
		return nil, domain.NewValidationError("la entrada de stock requiere un id")
	case userID == "":
		return nil, domain.NewValidationError("usuario no autenticado")
	case productID == "":
		return nil, domain.NewValidationError("seleccione un producto")
	}
	return &StockEntry{
		ID:        id,
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
