// Package inventory contiene los casos de uso de la pantalla de stock y el
// reporte de stock negativo que corre el scheduler.
package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/session"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/inventory"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// StockUseCase alta, ajuste manual y baja de entradas de stock.
// Las cantidades manuales son enteras y no negativas; solo las ventas pueden dejar el stock en negativo.
type StockUseCase struct {
	stockRepo   repository.StockRepository
	productRepo repository.ProductRepository
	now         func() time.Time
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(stockRepo repository.StockRepository, productRepo repository.ProductRepository) *StockUseCase {
	return &StockUseCase{stockRepo: stockRepo, productRepo: productRepo, now: time.Now}
}

// List devuelve las entradas del usuario, la actualizada más recientemente primero.
func (uc *StockUseCase) List(ctx context.Context, s session.Session) (*dto.StockListResponse, error) {
	if err := s.Require(); err != nil {
		return nil, err
	}
	list, err := uc.stockRepo.ListByUser(ctx, s.OwnerID())
	if err != nil {
		return nil, err
	}
	out := &dto.StockListResponse{Items: make([]dto.StockResponse, 0, len(list))}
	for _, e := range list {
		out.Items = append(out.Items, toStockResponse(e))
	}
	return out, nil
}

// Add suma quantity a la entrada del producto; si no existe la crea con esa cantidad.
func (uc *StockUseCase) Add(ctx context.Context, s session.Session, in dto.AddStockRequest) (*dto.StockMutationResponse, error) {
	if err := s.Require(); err != nil {
		return nil, err
	}
	if in.ProductID == "" {
		return nil, domain.NewValidationError("seleccione un producto")
	}
	if err := inventory.ValidateManualQuantity(in.Quantity); err != nil {
		return nil, err
	}
	product, err := uc.productRepo.GetByID(ctx, s.OwnerID(), in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NewValidationError("producto no encontrado")
	}

	existing, err := uc.stockRepo.FindByProduct(ctx, s.OwnerID(), in.ProductID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		next, negative := inventory.Shift(existing.Quantity, in.Quantity)
		if err := uc.stockRepo.UpdateQuantity(ctx, s.OwnerID(), existing.ID, next); err != nil {
			return nil, err
		}
		existing.Quantity = next
		existing.UpdatedAt = uc.now()
		existing.ProductName = product.Name
		msg := "cantidad sumada al stock existente"
		if negative {
			msg = "cantidad sumada; el stock sigue negativo"
		}
		return &dto.StockMutationResponse{
			Stock:   toStockResponse(existing),
			Created: false,
			Message: msg,
		}, nil
	}

	entry, err := entity.NewStockEntry(uuid.New().String(), s.OwnerID(), product.ID, in.Quantity, uc.now())
	if err != nil {
		return nil, err
	}
	entry.ProductName = product.Name
	if err := uc.stockRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return &dto.StockMutationResponse{
		Stock:   toStockResponse(entry),
		Created: true,
		Message: "stock creado",
	}, nil
}

// Set reemplaza la cantidad de una entrada.
func (uc *StockUseCase) Set(ctx context.Context, s session.Session, id string, quantity decimal.Decimal) (*dto.StockResponse, error) {
	if err := s.Require(); err != nil {
		return nil, err
	}
	if err := inventory.ValidateManualQuantity(quantity); err != nil {
		return nil, err
	}
	entry, err := uc.stockRepo.GetByID(ctx, s.OwnerID(), id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.stockRepo.UpdateQuantity(ctx, s.OwnerID(), id, quantity); err != nil {
		return nil, err
	}
	entry.Quantity = quantity
	entry.UpdatedAt = uc.now()
	out := toStockResponse(entry)
	return &out, nil
}

// Delete elimina una entrada de stock.
func (uc *StockUseCase) Delete(ctx context.Context, s session.Session, id string) error {
	if err := s.Require(); err != nil {
		return err
	}
	return uc.stockRepo.Delete(ctx, s.OwnerID(), id)
}

func toStockResponse(e *entity.StockEntry) dto.StockResponse {
	return dto.StockResponse{
		ID:          e.ID,
		ProductID:   e.ProductID,
		ProductName: e.ProductName,
		Quantity:    e.Quantity,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
