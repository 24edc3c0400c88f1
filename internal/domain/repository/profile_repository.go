package repository

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// ProfileRepository puerto de persistencia de perfiles (uno por usuario).
type ProfileRepository interface {
	Create(ctx context.Context, profile *entity.Profile) error
	// GetByUserID devuelve (nil, nil) si el usuario todavía no tiene perfil.
	GetByUserID(ctx context.Context, userID string) (*entity.Profile, error)
	// Update actualiza por user_id; domain.ErrNotFound si no hay fila.
	Update(ctx context.Context, profile *entity.Profile) error
}
