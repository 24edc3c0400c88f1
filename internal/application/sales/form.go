package sales

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/application/session"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	domsales "github.com/jhoicas/Ventas-api/internal/domain/sales"
)

// Line línea del formulario de venta en edición.
type Line struct {
	ProductID       string
	ProductName     string
	Quantity        decimal.Decimal
	PriceAtSale     decimal.Decimal
	TotalItemAmount decimal.Decimal
}

// Draft formulario de venta: cabecera + líneas ordenadas.
// Cada cambio de cantidad o precio recalcula el total de la línea.
type Draft struct {
	CustomerID string
	SaleDate   time.Time
	Status     string
	Notes      string
	Lines      []Line
}

// NewDraft formulario vacío con fecha de hoy y estado completed.
func NewDraft(today time.Time) *Draft {
	y, m, dd := today.Date()
	return &Draft{
		SaleDate: time.Date(y, m, dd, 0, 0, 0, 0, time.UTC),
		Status:   entity.SaleStatusCompleted,
	}
}

// DraftFromSale carga una venta existente en el formulario para editarla.
func DraftFromSale(s *entity.Sale) *Draft {
	d := &Draft{
		CustomerID: s.CustomerID,
		SaleDate:   s.SaleDate,
		Status:     s.Status,
		Notes:      s.Notes,
		Lines:      make([]Line, 0, len(s.Items)),
	}
	for _, it := range s.Items {
		d.Lines = append(d.Lines, Line{
			ProductID:       it.ProductID,
			ProductName:     it.ProductName,
			Quantity:        it.Quantity,
			PriceAtSale:     it.PriceAtSale,
			TotalItemAmount: it.TotalItemAmount,
		})
	}
	return d
}

// AddItem agrega una línea vacía con cantidad 1 y precio 0. Devuelve su índice.
func (d *Draft) AddItem() int {
	d.Lines = append(d.Lines, Line{Quantity: decimal.NewFromInt(1)})
	return len(d.Lines) - 1
}

// RemoveItem elimina la línea i conservando el orden del resto.
func (d *Draft) RemoveItem(i int) error {
	if err := d.checkIndex(i); err != nil {
		return err
	}
	d.Lines = append(d.Lines[:i], d.Lines[i+1:]...)
	return nil
}

// SelectProduct asigna el producto a la línea i, copia su precio actual y recalcula el total.
func (d *Draft) SelectProduct(i int, p *entity.Product) error {
	if err := d.checkIndex(i); err != nil {
		return err
	}
	if p == nil {
		return domain.NewValidationError("producto no encontrado")
	}
	l := &d.Lines[i]
	l.ProductID = p.ID
	l.ProductName = p.Name
	l.PriceAtSale = p.Price
	l.TotalItemAmount = domsales.LineTotal(l.Quantity, l.PriceAtSale)
	return nil
}

// SetQuantity cambia la cantidad de la línea i y recalcula su total.
func (d *Draft) SetQuantity(i int, q decimal.Decimal) error {
	if err := d.checkIndex(i); err != nil {
		return err
	}
	l := &d.Lines[i]
	l.Quantity = q
	l.TotalItemAmount = domsales.LineTotal(l.Quantity, l.PriceAtSale)
	return nil
}

// SetPrice cambia el precio de la línea i y recalcula su total.
func (d *Draft) SetPrice(i int, price decimal.Decimal) error {
	if err := d.checkIndex(i); err != nil {
		return err
	}
	l := &d.Lines[i]
	l.PriceAtSale = price
	l.TotalItemAmount = domsales.LineTotal(l.Quantity, l.PriceAtSale)
	return nil
}

// Total suma de los totales de línea.
func (d *Draft) Total() decimal.Decimal {
	totals := make([]decimal.Decimal, len(d.Lines))
	for i, l := range d.Lines {
		totals[i] = l.TotalItemAmount
	}
	return domsales.SaleTotal(totals...)
}

// Validate aplica las reglas del formulario en orden: usuario, cliente, estado,
// al menos una línea, cantidades (hasta 3 decimales), precios (hasta 2) y
// producto seleccionado. Devuelve el
// primer error encontrado como *domain.ValidationError.
func (d *Draft) Validate(s session.Session) error {
	switch {
	case s.UserID == "":
		return domain.NewValidationError("usuario no autenticado")
	case strings.TrimSpace(d.CustomerID) == "":
		return domain.NewValidationError("el cliente es obligatorio")
	case !entity.ValidSaleStatus(d.Status):
		return domain.NewValidationError(fmt.Sprintf("estado de venta inválido: %q", d.Status))
	case len(d.Lines) == 0:
		return domain.NewValidationError("agregue al menos un ítem a la venta")
	}
	for _, l := range d.Lines {
		if !l.Quantity.IsPositive() {
			return domain.NewValidationError("cantidad inválida para uno o más ítems")
		}
		if !domsales.FitsPlaces(l.Quantity, domsales.QuantityPlaces) {
			return domain.NewValidationError("la cantidad admite como máximo 3 decimales")
		}
	}
	for _, l := range d.Lines {
		if !l.PriceAtSale.IsPositive() {
			return domain.NewValidationError("precio inválido para uno o más ítems")
		}
		if !domsales.FitsPlaces(l.PriceAtSale, domsales.MoneyPlaces) {
			return domain.NewValidationError("el precio admite como máximo 2 decimales")
		}
	}
	for _, l := range d.Lines {
		if l.ProductID == "" {
			return domain.NewValidationError("seleccione un producto para todos los ítems de la venta")
		}
	}
	return nil
}

// Items convierte las líneas en SaleItem listos para insertar.
func (d *Draft) Items(saleID string) ([]entity.SaleItem, error) {
	items := make([]entity.SaleItem, 0, len(d.Lines))
	for _, l := range d.Lines {
		it, err := entity.NewSaleItem(saleID, l.ProductID, l.ProductName, l.Quantity, l.PriceAtSale)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

func (d *Draft) checkIndex(i int) error {
	if i < 0 || i >= len(d.Lines) {
		return domain.NewValidationError(fmt.Sprintf("ítem %d fuera de rango", i))
	}
	return nil
}
