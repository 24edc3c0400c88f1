package repository

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// UserRepository puerto de persistencia de cuentas de acceso.
type UserRepository interface {
	// Create devuelve domain.ErrEmailAlreadyExists si el email ya está registrado.
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
}
