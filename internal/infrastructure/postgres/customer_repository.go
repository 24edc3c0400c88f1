package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

const customerColumns = `id, user_id, name, email, phone, created_at, updated_at`

// CustomerRepo implementación de CustomerRepository sobre PostgreSQL.
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// Create persiste un nuevo cliente.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO customers (`+customerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.UserID, c.Name, c.Email, c.Phone, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente del usuario. (nil, nil) si no existe.
func (r *CustomerRepo) GetByID(ctx context.Context, userID, id string) (*entity.Customer, error) {
	var c entity.Customer
	err := r.q.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1 AND user_id = $2`, id, userID).
		Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

// ListByUser lista todos los clientes, el más reciente primero.
func (r *CustomerRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Customer, error) {
	return r.Newest(ctx, userID, 0)
}

// Newest lista del más reciente al más antiguo; limit <= 0 significa sin límite.
func (r *CustomerRepo) Newest(ctx context.Context, userID string, limit int) ([]*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE user_id = $1 ORDER BY created_at DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		var c entity.Customer
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Count cantidad de clientes del usuario.
func (r *CustomerRepo) Count(ctx context.Context, userID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM customers WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count customers: %w", err)
	}
	return n, nil
}

// Update reemplaza los datos de contacto.
func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE customers SET name = $3, email = $4, phone = $5, updated_at = $6
		WHERE id = $1 AND user_id = $2`,
		c.ID, c.UserID, c.Name, c.Email, c.Phone, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un cliente. Con ventas asociadas → domain.ErrConflict.
func (r *CustomerRepo) Delete(ctx context.Context, userID, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM customers WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete customer: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
