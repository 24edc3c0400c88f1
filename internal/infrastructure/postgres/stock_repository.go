package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

const stockSelect = `
	SELECT s.id, s.user_id, s.product_id, COALESCE(p.name, ''), s.quantity, s.created_at, s.updated_at
	FROM stock s LEFT JOIN products p ON p.id = s.product_id`

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q    Querier
	lock bool // FindByProduct bloquea la fila (SELECT FOR UPDATE); solo dentro de una tx
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// newLockingStockRepository variante para el runner transaccional: la lectura previa a
// un ajuste toma el lock de la fila hasta el commit.
func newLockingStockRepository(tx pgx.Tx) *StockRepo {
	return &StockRepo{q: tx, lock: true}
}

// FindByProduct obtiene la entrada de un producto. (nil, nil) si no tiene stock.
func (r *StockRepo) FindByProduct(ctx context.Context, userID, productID string) (*entity.StockEntry, error) {
	query := stockSelect + ` WHERE s.user_id = $1 AND s.product_id = $2`
	if r.lock {
		query += ` FOR UPDATE OF s`
	}
	return r.scanOne(r.q.QueryRow(ctx, query, userID, productID), "find stock by product")
}

// GetByID obtiene una entrada del usuario.
func (r *StockRepo) GetByID(ctx context.Context, userID, id string) (*entity.StockEntry, error) {
	return r.scanOne(r.q.QueryRow(ctx, stockSelect+` WHERE s.id = $1 AND s.user_id = $2`, id, userID), "get stock")
}

// ListByUser lista las entradas del usuario, la actualizada más recientemente primero.
func (r *StockRepo) ListByUser(ctx context.Context, userID string) ([]*entity.StockEntry, error) {
	return r.scanMany(ctx, stockSelect+` WHERE s.user_id = $1 ORDER BY s.updated_at DESC`, userID)
}

// ListNegative entradas con cantidad menor a cero de todos los usuarios.
func (r *StockRepo) ListNegative(ctx context.Context) ([]*entity.StockEntry, error) {
	return r.scanMany(ctx, stockSelect+` WHERE s.quantity < 0 ORDER BY s.quantity ASC`)
}

// Create inserta una entrada. Ya existente para (usuario, producto) → domain.ErrDuplicate.
func (r *StockRepo) Create(ctx context.Context, e *entity.StockEntry) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock (id, user_id, product_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.UserID, e.ProductID, e.Quantity, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.NewValidationError("producto no encontrado")
		}
		return fmt.Errorf("insert stock: %w", err)
	}
	return nil
}

// UpdateQuantity escribe la cantidad absoluta.
func (r *StockRepo) UpdateQuantity(ctx context.Context, userID, id string, quantity decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE stock SET quantity = $3, updated_at = now()
		WHERE id = $1 AND user_id = $2`, id, userID, quantity)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una entrada.
func (r *StockRepo) Delete(ctx context.Context, userID, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM stock WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// TotalQuantity suma de cantidades del usuario (incluye negativas).
func (r *StockRepo) TotalQuantity(ctx context.Context, userID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, `SELECT COALESCE(sum(quantity), 0) FROM stock WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum stock: %w", err)
	}
	return total, nil
}

func (r *StockRepo) scanOne(row pgx.Row, op string) (*entity.StockEntry, error) {
	var e entity.StockEntry
	err := row.Scan(&e.ID, &e.UserID, &e.ProductID, &e.ProductName, &e.Quantity, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &e, nil
}

func (r *StockRepo) scanMany(ctx context.Context, query string, args ...any) ([]*entity.StockEntry, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockEntry
	for rows.Next() {
		var e entity.StockEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.ProductID, &e.ProductName, &e.Quantity, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
