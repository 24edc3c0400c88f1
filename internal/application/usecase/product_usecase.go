package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/session"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. El stock se maneja aparte.
type ProductUseCase struct {
	repo repository.ProductRepository
	now  func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, now: time.Now}
}

// Create crea un nuevo producto del usuario.
func (uc *ProductUseCase) Create(ctx context.Context, s session.Session, in dto.ProductRequest) (*dto.ProductResponse, error) {
	if err := s.Require(); err != nil {
		return nil, err
	}
	product, err := entity.NewProduct(uuid.New().String(), s.OwnerID(), in.Name, in.Price, uc.now())
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto del usuario. domain.ErrNotFound si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, s session.Session, id string) (*dto.ProductResponse, error) {
	product, err := uc.load(ctx, s, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Update reemplaza nombre y precio.
func (uc *ProductUseCase) Update(ctx context.Context, s session.Session, id string, in dto.ProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.load(ctx, s, id)
	if err != nil {
		return nil, err
	}
	if err := product.Apply(in.Name, in.Price, uc.now()); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista los productos del usuario, el más reciente primero.
func (uc *ProductUseCase) List(ctx context.Context, s session.Session) (*dto.ProductListResponse, error) {
	if err := s.Require(); err != nil {
		return nil, err
	}
	list, err := uc.repo.ListByUser(ctx, s.OwnerID())
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{Items: items}, nil
}

// Delete elimina un producto. domain.ErrConflict si tiene stock o ventas asociadas.
func (uc *ProductUseCase) Delete(ctx context.Context, s session.Session, id string) error {
	if err := s.Require(); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, s.OwnerID(), id)
}

func (uc *ProductUseCase) load(ctx context.Context, s session.Session, id string) (*entity.Product, error) {
	if err := s.Require(); err != nil {
		return nil, err
	}
	product, err := uc.repo.GetByID(ctx, s.OwnerID(), id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
