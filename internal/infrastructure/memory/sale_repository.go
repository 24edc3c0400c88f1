package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas en memoria.
type SaleRepo struct{ s *Store }

func (r *SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.sales[sale.ID]; ok {
		return domain.ErrDuplicate
	}
	h := *sale
	h.Items = nil
	h.CustomerName = ""
	r.s.sales[sale.ID] = h
	return nil
}

func (r *SaleRepo) Update(_ context.Context, sale *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.sales[sale.ID]
	if !ok || old.UserID != sale.UserID {
		return domain.ErrNotFound
	}
	h := *sale
	h.Items = nil
	h.CustomerName = ""
	h.CreatedAt = old.CreatedAt
	r.s.sales[sale.ID] = h
	return nil
}

func (r *SaleRepo) GetByID(_ context.Context, userID, id string) (*entity.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	h, ok := r.s.sales[id]
	if !ok || h.UserID != userID {
		return nil, nil
	}
	return r.hydrate(h), nil
}

func (r *SaleRepo) List(_ context.Context, userID string, q repository.SaleQuery) ([]*entity.Sale, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	var list []*entity.Sale
	for _, h := range r.s.sales {
		if h.UserID != userID {
			continue
		}
		sale := r.hydrate(h)
		if needle != "" && !matches(sale, needle) {
			continue
		}
		list = append(list, sale)
	}
	sort.SliceStable(list, func(i, j int) bool {
		c := compareSales(list[i], list[j], q.SortBy)
		if c == 0 {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		if q.SortDesc {
			return c > 0
		}
		return c < 0
	})
	total := len(list)
	if q.Offset >= total {
		return []*entity.Sale{}, total, nil
	}
	end := total
	if q.Limit > 0 && q.Offset+q.Limit < total {
		end = q.Offset + q.Limit
	}
	return list[q.Offset:end], total, nil
}

func (r *SaleRepo) Delete(_ context.Context, userID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	h, ok := r.s.sales[id]
	if !ok || h.UserID != userID {
		return domain.ErrNotFound
	}
	delete(r.s.items, id)
	delete(r.s.sales, id)
	return nil
}

func (r *SaleRepo) ListItems(_ context.Context, userID, saleID string) ([]entity.SaleItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if !r.owns(userID, saleID) {
		return []entity.SaleItem{}, nil
	}
	return r.itemsOf(saleID), nil
}

func (r *SaleRepo) DeleteItems(_ context.Context, userID, saleID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.owns(userID, saleID) {
		delete(r.s.items, saleID)
	}
	return nil
}

func (r *SaleRepo) InsertItems(_ context.Context, userID, saleID string, items []entity.SaleItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.owns(userID, saleID) {
		return domain.ErrNotFound
	}
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.New().String()
		}
		items[i].SaleID = saleID
		it := items[i]
		it.ProductName = ""
		r.s.items[saleID] = append(r.s.items[saleID], it)
	}
	return nil
}

func (r *SaleRepo) CompletedTotal(_ context.Context, userID string) (decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	total := decimal.Zero
	for _, h := range r.s.sales {
		if h.UserID == userID && h.Status == entity.SaleStatusCompleted {
			total = total.Add(h.TotalAmount)
		}
	}
	return total, nil
}

func (r *SaleRepo) CountByStatus(_ context.Context, userID, status string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, h := range r.s.sales {
		if h.UserID == userID && h.Status == status {
			n++
		}
	}
	return n, nil
}

// owns indica si la venta existe y pertenece a userID. Requiere el lock tomado.
func (r *SaleRepo) owns(userID, saleID string) bool {
	h, ok := r.s.sales[saleID]
	return ok && h.UserID == userID
}

// hydrate completa nombre de cliente y líneas con nombre de producto. Requiere el lock tomado.
func (r *SaleRepo) hydrate(h entity.Sale) *entity.Sale {
	sale := h
	if c, ok := r.s.customers[h.CustomerID]; ok {
		sale.CustomerName = c.Name
	}
	sale.Items = r.itemsOf(h.ID)
	return &sale
}

func (r *SaleRepo) itemsOf(saleID string) []entity.SaleItem {
	src := r.s.items[saleID]
	out := make([]entity.SaleItem, len(src))
	for i, it := range src {
		it.ProductName = r.s.productName(it.ProductID)
		out[i] = it
	}
	return out
}

func matches(sale *entity.Sale, needle string) bool {
	if strings.Contains(strings.ToLower(sale.CustomerName), needle) ||
		strings.Contains(strings.ToLower(sale.Status), needle) ||
		strings.Contains(strings.ToLower(sale.Notes), needle) {
		return true
	}
	for _, it := range sale.Items {
		if strings.Contains(strings.ToLower(it.ProductName), needle) {
			return true
		}
	}
	return false
}

func compareSales(a, b *entity.Sale, key string) int {
	switch key {
	case repository.SaleSortTotal:
		return a.TotalAmount.Cmp(b.TotalAmount)
	case repository.SaleSortStatus:
		return strings.Compare(a.Status, b.Status)
	case repository.SaleSortCustomerName:
		return strings.Compare(strings.ToLower(a.CustomerName), strings.ToLower(b.CustomerName))
	default:
		return a.SaleDate.Compare(b.SaleDate)
	}
}
