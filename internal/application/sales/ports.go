package sales

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// Runner ejecuta una operación de venta con repositorios de stock y ventas.
//
// En modo best_effort cada llamada es independiente: si una fase falla, lo escrito
// antes permanece. En modo transactional todo corre en una transacción y un error
// deshace la operación completa.
type Runner interface {
	RunSales(ctx context.Context, fn func(stock repository.StockRepository, sales repository.SaleRepository) error) error
}

// ReceiptData datos para el comprobante de una venta.
type ReceiptData struct {
	Sale     *entity.Sale
	Customer *entity.Customer
	Seller   *entity.Profile
}

// ReceiptGenerator genera el comprobante en PDF.
type ReceiptGenerator interface {
	GenerateSaleReceipt(ctx context.Context, data ReceiptData) ([]byte, error)
}
