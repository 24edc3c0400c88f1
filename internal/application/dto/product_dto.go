package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductRequest entrada para crear o actualizar un producto.
type ProductRequest struct {
	Name  string          `json:"name" validate:"required,min=1,max=200"`
	Price decimal.Decimal `json:"price"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ProductListResponse lista de productos del usuario.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
}
