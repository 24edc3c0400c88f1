// Package sales implementa el registro de ventas y su reconciliación con el stock:
// formulario, ledger de stock, reconciliador y casos de uso crear/editar/eliminar.
package sales

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/session"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

const (
	dateLayout       = "2006-01-02"
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// UseCase casos de uso de ventas.
//
// Orden de las fases:
//
//	Crear:    insertar cabecera → insertar líneas → Apply(líneas)
//	Editar:   leer líneas viejas → Revert(viejas) → actualizar cabecera → borrar líneas → insertar nuevas → Apply(nuevas)
//	Eliminar: leer líneas → Revert(líneas) → borrar venta
type UseCase struct {
	runner    Runner
	sales     repository.SaleRepository
	products  repository.ProductRepository
	customers repository.CustomerRepository
	log       *logger.Logger
	now       func() time.Time
}

// NewUseCase construye el caso de uso. sales, products y customers se usan para lecturas fuera del runner.
func NewUseCase(
	runner Runner,
	sales repository.SaleRepository,
	products repository.ProductRepository,
	customers repository.CustomerRepository,
	log *logger.Logger,
) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		runner:    runner,
		sales:     sales,
		products:  products,
		customers: customers,
		log:       log,
		now:       time.Now,
	}
}

// Create registra una venta nueva y descuenta el stock.
func (uc *UseCase) Create(ctx context.Context, s session.Session, in dto.SaleRequest) (*dto.SaleMutationResponse, error) {
	draft, err := uc.buildDraft(ctx, s, in)
	if err != nil {
		return nil, err
	}
	sale, err := entity.NewSale(uuid.New().String(), s.OwnerID(), draft.CustomerID, draft.SaleDate, draft.Status, draft.Notes, uc.now())
	if err != nil {
		return nil, err
	}
	items, err := draft.Items(sale.ID)
	if err != nil {
		return nil, err
	}
	sale.TotalAmount = entity.SaleTotal(items)

	var warnings []Warning
	err = uc.runner.RunSales(ctx, func(stock repository.StockRepository, sales repository.SaleRepository) error {
		warnings = nil
		if err := sales.Create(ctx, sale); err != nil {
			return transport("crear venta", err)
		}
		if err := sales.InsertItems(ctx, s.OwnerID(), sale.ID, items); err != nil {
			return transport("insertar ítems", err)
		}
		w, err := NewReconciler(stock, uc.log).Apply(ctx, s.OwnerID(), items)
		warnings = append(warnings, w...)
		return err
	})
	if err != nil {
		uc.log.Error().Err(err).Str("user_id", s.UserID).Msg("crear venta")
		return nil, err
	}

	sale.Items = items
	uc.log.Info().Str("sale_id", sale.ID).Int("warnings", len(warnings)).Msg("venta creada")
	return &dto.SaleMutationResponse{
		Sale:     uc.toResponse(ctx, sale),
		Warnings: toWarnings(warnings),
		Message:  "venta creada con éxito",
	}, nil
}

// Update edita una venta: revierte el stock de las líneas viejas, reemplaza
// cabecera y líneas, y aplica las nuevas.
func (uc *UseCase) Update(ctx context.Context, s session.Session, saleID string, in dto.SaleRequest) (*dto.SaleMutationResponse, error) {
	draft, err := uc.buildDraft(ctx, s, in)
	if err != nil {
		return nil, err
	}
	existing, err := uc.sales.GetByID(ctx, s.OwnerID(), saleID)
	if err != nil {
		return nil, transport("leer venta", err)
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}

	items, err := draft.Items(saleID)
	if err != nil {
		return nil, err
	}
	if err := existing.Apply(draft.CustomerID, draft.SaleDate, draft.Status, draft.Notes, uc.now()); err != nil {
		return nil, err
	}
	existing.TotalAmount = entity.SaleTotal(items)
	existing.CustomerName = ""

	var warnings []Warning
	err = uc.runner.RunSales(ctx, func(stock repository.StockRepository, sales repository.SaleRepository) error {
		warnings = nil
		rec := NewReconciler(stock, uc.log)

		oldItems, err := sales.ListItems(ctx, s.OwnerID(), saleID)
		if err != nil {
			return transport("leer ítems anteriores", err)
		}
		w, err := rec.Revert(ctx, s.OwnerID(), oldItems)
		warnings = append(warnings, w...)
		if err != nil {
			return err
		}

		if err := sales.Update(ctx, existing); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return err
			}
			return transport("actualizar venta", err)
		}
		if err := sales.DeleteItems(ctx, s.OwnerID(), saleID); err != nil {
			return transport("borrar ítems anteriores", err)
		}
		if err := sales.InsertItems(ctx, s.OwnerID(), saleID, items); err != nil {
			return transport("insertar ítems", err)
		}

		w, err = rec.Apply(ctx, s.OwnerID(), items)
		warnings = append(warnings, w...)
		return err
	})
	if err != nil {
		uc.log.Error().Err(err).Str("sale_id", saleID).Msg("editar venta")
		return nil, err
	}

	existing.Items = items
	uc.log.Info().Str("sale_id", saleID).Int("warnings", len(warnings)).Msg("venta actualizada")
	return &dto.SaleMutationResponse{
		Sale:     uc.toResponse(ctx, existing),
		Warnings: toWarnings(warnings),
		Message:  "venta actualizada con éxito",
	}, nil
}

// Delete elimina una venta devolviendo al stock sus cantidades.
func (uc *UseCase) Delete(ctx context.Context, s session.Session, saleID string) (*dto.SaleMutationResponse, error) {
	if err := s.Require(); err != nil {
		return nil, err
	}
	existing, err := uc.sales.GetByID(ctx, s.OwnerID(), saleID)
	if err != nil {
		return nil, transport("leer venta", err)
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}

	var warnings []Warning
	err = uc.runner.RunSales(ctx, func(stock repository.StockRepository, sales repository.SaleRepository) error {
		warnings = nil
		items, err := sales.ListItems(ctx, s.OwnerID(), saleID)
		if err != nil {
			return transport("leer ítems de la venta", err)
		}
		w, err := NewReconciler(stock, uc.log).Revert(ctx, s.OwnerID(), items)
		warnings = append(warnings, w...)
		if err != nil {
			return err
		}
		if err := sales.Delete(ctx, s.OwnerID(), saleID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return err
			}
			return transport("eliminar venta", err)
		}
		return nil
	})
	if err != nil {
		uc.log.Error().Err(err).Str("sale_id", saleID).Msg("eliminar venta")
		return nil, err
	}

	uc.log.Info().Str("sale_id", saleID).Int("warnings", len(warnings)).Msg("venta eliminada")
	return &dto.SaleMutationResponse{
		Warnings: toWarnings(warnings),
		Message:  "venta eliminada y stock revertido con éxito",
	}, nil
}

// Get devuelve una venta con sus líneas.
func (uc *UseCase) Get(ctx context.Context, s session.Session, saleID string) (*dto.SaleResponse, error) {
	if err := s.Require(); err != nil {
		return nil, err
	}
	sale, err := uc.sales.GetByID(ctx, s.OwnerID(), saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	return uc.toResponse(ctx, sale), nil
}

// List lista las ventas del usuario con búsqueda, orden y paginación.
// Por defecto ordena por fecha de venta descendente.
func (uc *UseCase) List(ctx context.Context, s session.Session, q repository.SaleQuery) (*dto.SaleListResponse, error) {
	if err := s.Require(); err != nil {
		return nil, err
	}
	q = NormalizeQuery(q)
	list, total, err := uc.sales.List(ctx, s.OwnerID(), q)
	if err != nil {
		return nil, err
	}
	out := &dto.SaleListResponse{
		Items: make([]dto.SaleResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}
	for _, sale := range list {
		out.Items = append(out.Items, *toSaleResponse(sale))
	}
	return out, nil
}

// NormalizeQuery aplica valores por defecto y descarta claves de orden desconocidas.
func NormalizeQuery(q repository.SaleQuery) repository.SaleQuery {
	q.Search = strings.TrimSpace(q.Search)
	switch q.SortBy {
	case repository.SaleSortDate, repository.SaleSortTotal, repository.SaleSortStatus, repository.SaleSortCustomerName:
	default:
		q.SortBy = repository.SaleSortDate
		q.SortDesc = true
	}
	if q.Limit <= 0 {
		q.Limit = defaultPageLimit
	}
	if q.Limit > maxPageLimit {
		q.Limit = maxPageLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q
}

// buildDraft arma el formulario desde la petición: cada producto se busca para
// copiar su precio y nombre; un precio explícito distinto de cero lo reemplaza.
// Solo hace lecturas; cualquier error de validación corta antes de escribir.
func (uc *UseCase) buildDraft(ctx context.Context, s session.Session, in dto.SaleRequest) (*Draft, error) {
	if err := s.Require(); err != nil {
		return nil, err
	}
	draft := NewDraft(uc.now())
	draft.CustomerID = strings.TrimSpace(in.CustomerID)
	draft.Notes = in.Notes
	if in.Status != "" {
		draft.Status = in.Status
	}
	if in.SaleDate != "" {
		d, err := parseSaleDate(in.SaleDate)
		if err != nil {
			return nil, err
		}
		draft.SaleDate = d
	}

	for _, item := range in.Items {
		i := draft.AddItem()
		_ = draft.SetQuantity(i, item.Quantity)
		if item.ProductID != "" {
			p, err := uc.products.GetByID(ctx, s.OwnerID(), item.ProductID)
			if err != nil {
				return nil, transport("leer producto", err)
			}
			if p == nil {
				return nil, domain.NewValidationError(fmt.Sprintf("producto %s no encontrado", item.ProductID))
			}
			if err := draft.SelectProduct(i, p); err != nil {
				return nil, err
			}
		}
		if item.PriceAtSale != nil && !item.PriceAtSale.IsZero() {
			_ = draft.SetPrice(i, *item.PriceAtSale)
		}
	}

	if err := draft.Validate(s); err != nil {
		return nil, err
	}

	customer, err := uc.customers.GetByID(ctx, s.OwnerID(), draft.CustomerID)
	if err != nil {
		return nil, transport("leer cliente", err)
	}
	if customer == nil {
		return nil, domain.NewValidationError("cliente no encontrado")
	}
	return draft, nil
}

func parseSaleDate(raw string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, domain.NewValidationError("fecha de venta inválida, use el formato AAAA-MM-DD")
}

// toResponse completa el nombre del cliente si la venta recién escrita no lo trae.
func (uc *UseCase) toResponse(ctx context.Context, sale *entity.Sale) *dto.SaleResponse {
	if sale.CustomerName == "" {
		if c, err := uc.customers.GetByID(ctx, sale.UserID, sale.CustomerID); err == nil && c != nil {
			sale.CustomerName = c.Name
		}
	}
	return toSaleResponse(sale)
}

func toSaleResponse(sale *entity.Sale) *dto.SaleResponse {
	out := &dto.SaleResponse{
		ID:           sale.ID,
		CustomerID:   sale.CustomerID,
		CustomerName: sale.CustomerName,
		SaleDate:     sale.SaleDate.Format(dateLayout),
		Status:       sale.Status,
		Notes:        sale.Notes,
		TotalAmount:  sale.TotalAmount,
		Items:        make([]dto.SaleItemResponse, 0, len(sale.Items)),
		CreatedAt:    sale.CreatedAt,
		UpdatedAt:    sale.UpdatedAt,
	}
	for _, it := range sale.Items {
		out.Items = append(out.Items, dto.SaleItemResponse{
			ID:              it.ID,
			ProductID:       it.ProductID,
			ProductName:     it.ProductName,
			Quantity:        it.Quantity,
			PriceAtSale:     it.PriceAtSale,
			TotalItemAmount: it.TotalItemAmount,
		})
	}
	return out
}

func toWarnings(ws []Warning) []dto.WarningResponse {
	out := make([]dto.WarningResponse, 0, len(ws))
	for _, w := range ws {
		out = append(out, dto.WarningResponse{
			Code:        w.Code,
			ProductID:   w.ProductID,
			ProductName: w.ProductName,
			Quantity:    w.Quantity,
			Message:     w.Message,
		})
	}
	return out
}
