package memory

import (
	"context"
	"strings"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var (
	_ repository.UserRepository    = (*UserRepo)(nil)
	_ repository.ProfileRepository = (*ProfileRepo)(nil)
)

// UserRepo usuarios en memoria.
type UserRepo struct{ s *Store }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.users {
		if strings.EqualFold(other.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, other := range r.s.users {
		if id != u.ID && strings.EqualFold(other.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.users[u.ID] = *u
	return nil
}

// ProfileRepo perfiles en memoria (clave: user_id).
type ProfileRepo struct{ s *Store }

func (r *ProfileRepo) Create(_ context.Context, p *entity.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.profiles[p.UserID]; ok {
		return domain.ErrDuplicate
	}
	r.s.profiles[p.UserID] = *p
	return nil
}

func (r *ProfileRepo) GetByUserID(_ context.Context, userID string) (*entity.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProfileRepo) Update(_ context.Context, p *entity.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.profiles[p.UserID]
	if !ok {
		return domain.ErrNotFound
	}
	p.ID = old.ID
	p.CreatedAt = old.CreatedAt
	r.s.profiles[p.UserID] = *p
	return nil
}
