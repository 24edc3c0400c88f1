package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea de venta enviada por el cliente.
// Si PriceAtSale se omite o es cero se toma el precio actual del producto.
type SaleItemRequest struct {
	ProductID   string           `json:"product_id"`
	Quantity    decimal.Decimal  `json:"quantity"`
	PriceAtSale *decimal.Decimal `json:"price_at_sale,omitempty"`
}

// SaleRequest entrada para crear o editar una venta.
type SaleRequest struct {
	CustomerID string            `json:"customer_id"`
	SaleDate   string            `json:"sale_date"` // YYYY-MM-DD; vacío = hoy
	Status     string            `json:"status"`    // completed | pending | cancelled; vacío = completed
	Notes      string            `json:"notes"`
	Items      []SaleItemRequest `json:"items"`
}

// SaleItemResponse línea de venta con nombre del producto.
type SaleItemResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	ProductName     string          `json:"product_name"`
	Quantity        decimal.Decimal `json:"quantity"`
	PriceAtSale     decimal.Decimal `json:"price_at_sale"`
	TotalItemAmount decimal.Decimal `json:"total_item_amount"`
}

// SaleResponse venta con cliente y líneas.
type SaleResponse struct {
	ID           string             `json:"id"`
	CustomerID   string             `json:"customer_id"`
	CustomerName string             `json:"customer_name"`
	SaleDate     string             `json:"sale_date"`
	Status       string             `json:"status"`
	Notes        string             `json:"notes"`
	TotalAmount  decimal.Decimal    `json:"total_amount"`
	Items        []SaleItemResponse `json:"items"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// WarningResponse aviso no fatal (stock no encontrado, stock negativo).
type WarningResponse struct {
	Code        string          `json:"code"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	Message     string          `json:"message"`
}

// SaleMutationResponse salida de crear, editar o eliminar una venta.
type SaleMutationResponse struct {
	Sale     *SaleResponse     `json:"sale,omitempty"`
	Warnings []WarningResponse `json:"warnings"`
	Message  string            `json:"message"`
}

// SaleListResponse listado paginado de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
