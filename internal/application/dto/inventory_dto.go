package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddStockRequest entrada de POST /api/stock: suma a la entrada existente o la crea.
type AddStockRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// SetStockRequest entrada de PUT /api/stock/:id: reemplaza la cantidad.
type SetStockRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

// StockResponse entrada de stock con nombre del producto.
type StockResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// StockMutationResponse salida de POST /api/stock. Created indica si se creó la entrada.
type StockMutationResponse struct {
	Stock   StockResponse `json:"stock"`
	Created bool          `json:"created"`
	Message string        `json:"message"`
}

// StockListResponse lista de entradas de stock.
type StockListResponse struct {
	Items []StockResponse `json:"items"`
}
