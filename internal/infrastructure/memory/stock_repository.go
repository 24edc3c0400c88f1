package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo stock en memoria.
type StockRepo struct{ s *Store }

func (r *StockRepo) FindByProduct(_ context.Context, userID, productID string) (*entity.StockEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, e := range r.s.stock {
		if e.UserID == userID && e.ProductID == productID {
			e.ProductName = r.s.productName(e.ProductID)
			return &e, nil
		}
	}
	return nil, nil
}

func (r *StockRepo) GetByID(_ context.Context, userID, id string) (*entity.StockEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.stock[id]
	if !ok || e.UserID != userID {
		return nil, nil
	}
	e.ProductName = r.s.productName(e.ProductID)
	return &e, nil
}

func (r *StockRepo) ListByUser(_ context.Context, userID string) ([]*entity.StockEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.StockEntry
	for _, e := range r.s.stock {
		if e.UserID == userID {
			e := e
			e.ProductName = r.s.productName(e.ProductID)
			list = append(list, &e)
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].UpdatedAt.After(list[j].UpdatedAt) })
	return list, nil
}

func (r *StockRepo) Create(_ context.Context, e *entity.StockEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.stock {
		if other.UserID == e.UserID && other.ProductID == e.ProductID {
			return domain.ErrDuplicate
		}
	}
	r.s.stock[e.ID] = *e
	return nil
}

func (r *StockRepo) UpdateQuantity(_ context.Context, userID, id string, quantity decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.stock[id]
	if !ok || e.UserID != userID {
		return domain.ErrNotFound
	}
	e.Quantity = quantity
	e.UpdatedAt = time.Now()
	r.s.stock[id] = e
	return nil
}

func (r *StockRepo) Delete(_ context.Context, userID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.stock[id]
	if !ok || e.UserID != userID {
		return domain.ErrNotFound
	}
	delete(r.s.stock, id)
	return nil
}

func (r *StockRepo) ListNegative(_ context.Context) ([]*entity.StockEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.StockEntry
	for _, e := range r.s.stock {
		if e.Quantity.IsNegative() {
			e := e
			e.ProductName = r.s.productName(e.ProductID)
			list = append(list, &e)
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Quantity.LessThan(list[j].Quantity) })
	return list, nil
}

func (r *StockRepo) TotalQuantity(_ context.Context, userID string) (decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	total := decimal.Zero
	for _, e := range r.s.stock {
		if e.UserID == userID {
			total = total.Add(e.Quantity)
		}
	}
	return total, nil
}
