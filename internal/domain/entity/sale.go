package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain"
	domsales "github.com/jhoicas/Ventas-api/internal/domain/sales"
)

// Estados de una venta.
const (
	SaleStatusCompleted = "completed"
	SaleStatusPending   = "pending"
	SaleStatusCancelled = "cancelled"
)

// ValidSaleStatus indica si s es uno de los estados admitidos.
func ValidSaleStatus(s string) bool {
	switch s {
	case SaleStatusCompleted, SaleStatusPending, SaleStatusCancelled:
		return true
	}
	return false
}

// Sale cabecera de una venta. TotalAmount es la suma de las líneas al guardar.
type Sale struct {
	ID           string
	UserID       string
	CustomerID   string
	CustomerName string // solo lectura (join con customers)
	SaleDate     time.Time
	Status       string
	Notes        string
	TotalAmount  decimal.Decimal
	Items        []SaleItem // cargadas por GetByID y List
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SaleItem línea de una venta. PriceAtSale es el precio congelado al momento de vender.
type SaleItem struct {
	ID              string
	SaleID          string
	ProductID       string
	ProductName     string // solo lectura (join con products)
	Quantity        decimal.Decimal
	PriceAtSale     decimal.Decimal
	TotalItemAmount decimal.Decimal
}

// NewSale valida y construye la cabecera de una venta sin líneas.
// El total se asigna después con SaleTotal sobre las líneas construidas.
func NewSale(id, userID, customerID string, saleDate time.Time, status, notes string, now time.Time) (*Sale, error) {
	if id == "" {
		return nil, domain.NewValidationError("la venta requiere un id")
	}
	s := &Sale{ID: id, UserID: userID, CreatedAt: now}
	if err := s.Apply(customerID, saleDate, status, notes, now); err != nil {
		return nil, err
	}
	return s, nil
}

// Apply reemplaza los datos de cabecera con las mismas reglas que NewSale.
func (s *Sale) Apply(customerID string, saleDate time.Time, status, notes string, now time.Time) error {
	customerID = strings.TrimSpace(customerID)
	switch {
	case s.UserID == "":
		return domain.NewValidationError("usuario no autenticado")
	case customerID == "":
		return domain.NewValidationError("el cliente es obligatorio")
	case !ValidSaleStatus(status):
		return domain.NewValidationError(fmt.Sprintf("estado de venta inválido: %q", status))
	case saleDate.IsZero():
		return domain.NewValidationError("la fecha de venta es obligatoria")
	}
	s.CustomerID = customerID
	s.SaleDate = saleDate
	s.Status = status
	s.Notes = notes
	s.UpdatedAt = now
	return nil
}

// NewSaleItem valida y construye una línea. El total de línea se calcula con
// LineTotal; cantidad y precio deben entrar en la escala con que se persisten.
func NewSaleItem(saleID, productID, productName string, quantity, price decimal.Decimal) (SaleItem, error) {
	switch {
	case saleID == "":
		return SaleItem{}, domain.NewValidationError("la línea requiere una venta")
	case productID == "":
		return SaleItem{}, domain.NewValidationError("seleccione un producto para todos los ítems de la venta")
	case !quantity.IsPositive() || !domsales.FitsPlaces(quantity, domsales.QuantityPlaces):
		return SaleItem{}, domain.NewValidationError("cantidad inválida para uno o más ítems")
	case price.IsNegative() || !domsales.FitsPlaces(price, domsales.MoneyPlaces):
		return SaleItem{}, domain.NewValidationError("precio inválido para uno o más ítems")
	}
	return SaleItem{
		SaleID:          saleID,
		ProductID:       productID,
		ProductName:     productName,
		Quantity:        quantity,
		PriceAtSale:     price,
		TotalItemAmount: domsales.LineTotal(quantity, price),
	}, nil
}

// SaleTotal suma los totales de las líneas.
func SaleTotal(items []SaleItem) decimal.Decimal {
	totals := make([]decimal.Decimal, len(items))
	for i, it := range items {
		totals[i] = it.TotalItemAmount
	}
	return domsales.SaleTotal(totals...)
}
