package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var (
	_ sales.Runner = (*TxRunner)(nil)
	_ sales.Runner = (*PoolRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL (RECONCILE_MODE=transactional).
// Las lecturas de stock previas a un ajuste toman el lock de la fila (SELECT FOR UPDATE).
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunSales inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) RunSales(ctx context.Context, fn func(
	stock repository.StockRepository,
	sales repository.SaleRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(newLockingStockRepository(tx), NewSaleRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// PoolRunner ejecuta fn con repos atados al pool (RECONCILE_MODE=best_effort):
// cada sentencia se confirma por separado y un error deja escrito lo anterior.
type PoolRunner struct {
	stock *StockRepo
	sales *SaleRepo
}

// NewPoolRunner construye el runner sin transacción.
func NewPoolRunner(pool *pgxpool.Pool) *PoolRunner {
	return &PoolRunner{stock: NewStockRepository(pool), sales: NewSaleRepository(pool)}
}

func (r *PoolRunner) RunSales(_ context.Context, fn func(
	stock repository.StockRepository,
	sales repository.SaleRepository,
) error) error {
	return fn(r.stock, r.sales)
}
