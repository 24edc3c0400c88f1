package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository  = (*ProductRepo)(nil)
	_ repository.CustomerRepository = (*CustomerRepo)(nil)
)

// ProductRepo productos en memoria.
type ProductRepo struct{ s *Store }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, userID, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok || p.UserID != userID {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepo) ListByUser(_ context.Context, userID string) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Product
	for _, p := range r.s.products {
		if p.UserID == userID {
			p := p
			list = append(list, &p)
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.products[p.ID]
	if !ok || old.UserID != p.UserID {
		return domain.ErrNotFound
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) Delete(_ context.Context, userID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok || p.UserID != userID {
		return domain.ErrNotFound
	}
	for _, e := range r.s.stock {
		if e.ProductID == id {
			return domain.ErrConflict
		}
	}
	for _, items := range r.s.items {
		for _, it := range items {
			if it.ProductID == id {
				return domain.ErrConflict
			}
		}
	}
	delete(r.s.products, id)
	return nil
}

// CustomerRepo clientes en memoria.
type CustomerRepo struct{ s *Store }

func (r *CustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customers[c.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.customers[c.ID] = *c
	return nil
}

func (r *CustomerRepo) GetByID(_ context.Context, userID, id string) (*entity.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.customers[id]
	if !ok || c.UserID != userID {
		return nil, nil
	}
	return &c, nil
}

func (r *CustomerRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Customer, error) {
	return r.Newest(ctx, userID, 0)
}

// Newest lista del más reciente al más antiguo; limit <= 0 significa sin límite.
func (r *CustomerRepo) Newest(_ context.Context, userID string, limit int) ([]*entity.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Customer
	for _, c := range r.s.customers {
		if c.UserID == userID {
			c := c
			list = append(list, &c)
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (r *CustomerRepo) Count(_ context.Context, userID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, c := range r.s.customers {
		if c.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *CustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.customers[c.ID]
	if !ok || old.UserID != c.UserID {
		return domain.ErrNotFound
	}
	r.s.customers[c.ID] = *c
	return nil
}

func (r *CustomerRepo) Delete(_ context.Context, userID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.customers[id]
	if !ok || c.UserID != userID {
		return domain.ErrNotFound
	}
	for _, sale := range r.s.sales {
		if sale.CustomerID == id {
			return domain.ErrConflict
		}
	}
	delete(r.s.customers, id)
	return nil
}
