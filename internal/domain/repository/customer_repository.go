package repository

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// CustomerRepository puerto de persistencia de clientes.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, userID, id string) (*entity.Customer, error)
	// ListByUser ordena del más reciente al más antiguo.
	ListByUser(ctx context.Context, userID string) ([]*entity.Customer, error)
	Newest(ctx context.Context, userID string, limit int) ([]*entity.Customer, error)
	Count(ctx context.Context, userID string) (int, error)
	Update(ctx context.Context, customer *entity.Customer) error
	Delete(ctx context.Context, userID, id string) error
}
