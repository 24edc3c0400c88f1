package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.ProfileRepository = (*ProfileRepo)(nil)

// ProfileRepo implementación de ProfileRepository sobre PostgreSQL.
type ProfileRepo struct {
	pool *pgxpool.Pool
}

// NewProfileRepository construye el adaptador.
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

// Create inserta el perfil. Ya existente para el usuario → domain.ErrDuplicate.
func (r *ProfileRepo) Create(ctx context.Context, p *entity.Profile) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO profiles (id, user_id, first_name, last_name, email, phone, avatar_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.UserID, p.FirstName, p.LastName, p.Email, p.Phone, p.AvatarURL, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// GetByUserID devuelve (nil, nil) si el usuario todavía no tiene perfil.
func (r *ProfileRepo) GetByUserID(ctx context.Context, userID string) (*entity.Profile, error) {
	var p entity.Profile
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, first_name, last_name, email, phone, avatar_url, created_at, updated_at
		FROM profiles WHERE user_id = $1`, userID).Scan(
		&p.ID, &p.UserID, &p.FirstName, &p.LastName, &p.Email, &p.Phone, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

// Update actualiza por user_id.
func (r *ProfileRepo) Update(ctx context.Context, p *entity.Profile) error {
	cmd, err := r.pool.Exec(ctx, `
		UPDATE profiles SET first_name = $2, last_name = $3, email = $4, phone = $5, avatar_url = $6, updated_at = $7
		WHERE user_id = $1`,
		p.UserID, p.FirstName, p.LastName, p.Email, p.Phone, p.AvatarURL, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
