package memory

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ sales.Runner = (*Runner)(nil)

// Runner ejecuta las operaciones de venta sobre el Store sin transacción:
// cada llamada se aplica al momento y no hay rollback (modo best_effort).
type Runner struct {
	s *Store
}

// NewRunner construye el runner.
func NewRunner(s *Store) *Runner {
	return &Runner{s: s}
}

func (r *Runner) RunSales(_ context.Context, fn func(stock repository.StockRepository, sales repository.SaleRepository) error) error {
	return fn(r.s.Stock(), r.s.Sales())
}
