package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	DisplayName     string             `json:"display_name"`    // primer nombre del perfil o email
	CompletedSales  decimal.Decimal    `json:"completed_sales"` // suma de ventas completadas
	PendingSales    int                `json:"pending_sales"`   // cantidad de ventas pendientes
	StockQuantity   decimal.Decimal    `json:"stock_quantity"`  // unidades totales en stock
	TotalCustomers  int                `json:"total_customers"`
	NewestCustomers []CustomerResponse `json:"newest_customers"` // últimos 5
}
