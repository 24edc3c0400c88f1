package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleSelect = `
	SELECT s.id, s.user_id, s.customer_id, COALESCE(c.name, ''), s.sale_date, s.status, s.notes,
	       s.total_amount, s.created_at, s.updated_at
	FROM sales s LEFT JOIN customers c ON c.id = s.customer_id`

// saleSortColumns columnas admitidas en ORDER BY (lista cerrada, nunca texto del cliente).
var saleSortColumns = map[string]string{
	repository.SaleSortDate:         "s.sale_date",
	repository.SaleSortTotal:        "s.total_amount",
	repository.SaleSortStatus:       "s.status",
	repository.SaleSortCustomerName: "lower(COALESCE(c.name, ''))",
}

// SaleRepo implementación de SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta solo la cabecera.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (id, user_id, customer_id, sale_date, status, notes, total_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		s.ID, s.UserID, s.CustomerID, s.SaleDate, s.Status, s.Notes, s.TotalAmount, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.NewValidationError("el cliente es obligatorio")
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// Update actualiza la cabecera.
func (r *SaleRepo) Update(ctx context.Context, s *entity.Sale) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE sales SET customer_id = $3, sale_date = $4, status = $5, notes = $6, total_amount = $7, updated_at = $8
		WHERE id = $1 AND user_id = $2`,
		s.ID, s.UserID, s.CustomerID, s.SaleDate, s.Status, s.Notes, s.TotalAmount, s.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.NewValidationError("el cliente es obligatorio")
		}
		return fmt.Errorf("update sale: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID devuelve la venta con líneas y nombres, o (nil, nil).
func (r *SaleRepo) GetByID(ctx context.Context, userID, id string) (*entity.Sale, error) {
	var s entity.Sale
	err := scanSale(r.q.QueryRow(ctx, saleSelect+` WHERE s.id = $1 AND s.user_id = $2`, id, userID), &s)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	items, err := r.ListItems(ctx, userID, s.ID)
	if err != nil {
		return nil, err
	}
	s.Items = items
	return &s, nil
}

// List filtra, ordena y pagina; devuelve también el total sin paginar.
func (r *SaleRepo) List(ctx context.Context, userID string, q repository.SaleQuery) ([]*entity.Sale, int, error) {
	where := ` WHERE s.user_id = $1`
	args := []any{userID}
	if needle := strings.TrimSpace(q.Search); needle != "" {
		args = append(args, likePattern(needle))
		where += ` AND (c.name ILIKE $2 OR s.status ILIKE $2 OR s.notes ILIKE $2 OR EXISTS (
			SELECT 1 FROM sale_items i JOIN products p ON p.id = i.product_id
			WHERE i.sale_id = s.id AND p.name ILIKE $2))`
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM sales s LEFT JOIN customers c ON c.id = s.customer_id`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}

	col, ok := saleSortColumns[q.SortBy]
	if !ok {
		col = saleSortColumns[repository.SaleSortDate]
	}
	dir := "ASC"
	if q.SortDesc {
		dir = "DESC"
	}
	query := saleSelect + where + fmt.Sprintf(` ORDER BY %s %s, s.created_at DESC, s.id`, col, dir)
	if q.Limit > 0 {
		args = append(args, q.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	if q.Offset > 0 {
		args = append(args, q.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	list := []*entity.Sale{}
	index := make(map[string]*entity.Sale)
	ids := []string{}
	for rows.Next() {
		var s entity.Sale
		if err := scanSale(rows, &s); err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("scan sale: %w", err)
		}
		s.Items = []entity.SaleItem{}
		list = append(list, &s)
		index[s.ID] = &s
		ids = append(ids, s.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	if len(ids) == 0 {
		return list, total, nil
	}

	items, err := r.itemsWhere(ctx, `i.sale_id = ANY($1)`, ids)
	if err != nil {
		return nil, 0, err
	}
	for _, it := range items {
		if s := index[it.SaleID]; s != nil {
			s.Items = append(s.Items, it)
		}
	}
	return list, total, nil
}

// Delete borra cabecera y líneas (ON DELETE CASCADE).
func (r *SaleRepo) Delete(ctx context.Context, userID, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM sales WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListItems líneas de la venta en el orden en que se guardaron.
func (r *SaleRepo) ListItems(ctx context.Context, userID, saleID string) ([]entity.SaleItem, error) {
	return r.itemsWhere(ctx,
		`i.sale_id = $1 AND EXISTS (SELECT 1 FROM sales s WHERE s.id = i.sale_id AND s.user_id = $2)`,
		saleID, userID)
}

// DeleteItems borra todas las líneas de la venta.
func (r *SaleRepo) DeleteItems(ctx context.Context, userID, saleID string) error {
	_, err := r.q.Exec(ctx, `
		DELETE FROM sale_items i USING sales s
		WHERE i.sale_id = s.id AND s.id = $1 AND s.user_id = $2`, saleID, userID)
	if err != nil {
		return fmt.Errorf("delete sale items: %w", err)
	}
	return nil
}

// InsertItems inserta las líneas en un solo batch. Asigna ID y SaleID a cada ítem del slice.
// Cada INSERT toma la venta filtrada por dueño: sin filas afectadas, la venta no es del usuario.
func (r *SaleRepo) InsertItems(ctx context.Context, userID, saleID string, items []entity.SaleItem) error {
	if len(items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.New().String()
		}
		items[i].SaleID = saleID
		it := items[i]
		batch.Queue(`
			INSERT INTO sale_items (id, sale_id, position, product_id, quantity, price_at_sale, total_item_amount)
			SELECT $1, s.id, $3, $4, $5, $6, $7 FROM sales s WHERE s.id = $2 AND s.user_id = $8`,
			it.ID, saleID, i, it.ProductID, it.Quantity, it.PriceAtSale, it.TotalItemAmount, userID,
		)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for range items {
		cmd, err := br.Exec()
		if err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrConflict
			}
			return fmt.Errorf("insert sale item: %w", err)
		}
		if cmd.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
	}
	return nil
}

// CompletedTotal suma total_amount de las ventas completadas.
func (r *SaleRepo) CompletedTotal(ctx context.Context, userID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(sum(total_amount), 0) FROM sales WHERE user_id = $1 AND status = $2`,
		userID, entity.SaleStatusCompleted).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum completed sales: %w", err)
	}
	return total, nil
}

// CountByStatus cantidad de ventas del usuario en un estado.
func (r *SaleRepo) CountByStatus(ctx context.Context, userID, status string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM sales WHERE user_id = $1 AND status = $2`, userID, status).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sales: %w", err)
	}
	return n, nil
}

func (r *SaleRepo) itemsWhere(ctx context.Context, cond string, args ...any) ([]entity.SaleItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT i.id, i.sale_id, i.product_id, COALESCE(p.name, ''), i.quantity, i.price_at_sale, i.total_item_amount
		FROM sale_items i LEFT JOIN products p ON p.id = i.product_id
		WHERE `+cond+` ORDER BY i.sale_id, i.position`, args...)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	items := []entity.SaleItem{}
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.ProductName, &it.Quantity, &it.PriceAtSale, &it.TotalItemAmount); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func scanSale(row pgx.Row, s *entity.Sale) error {
	return row.Scan(&s.ID, &s.UserID, &s.CustomerID, &s.CustomerName, &s.SaleDate, &s.Status, &s.Notes,
		&s.TotalAmount, &s.CreatedAt, &s.UpdatedAt)
}
