package repository

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// ProductRepository puerto de persistencia de productos. Todas las consultas van
// acotadas por userID (dueño). GetByID devuelve (nil, nil) si no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, userID, id string) (*entity.Product, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// Delete devuelve domain.ErrConflict si el producto está referenciado por stock o ventas.
	Delete(ctx context.Context, userID, id string) error
}
