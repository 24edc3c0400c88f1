package sales

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/inventory"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

// Códigos de advertencia de la reconciliación. No detienen la operación.
const (
	WarningStockNotFound = "STOCK_NOT_FOUND"
	WarningNegativeStock = "NEGATIVE_STOCK"
)

// Warning resultado no fatal de la reconciliación, equivalente a un aviso en pantalla.
type Warning struct {
	Code        string
	ProductID   string
	ProductName string
	Quantity    decimal.Decimal // cantidad resultante (NEGATIVE_STOCK) o cantidad no descontada (STOCK_NOT_FOUND)
	Message     string
}

// TransportError falla del almacén en una fase de la operación. Aborta la fase
// en curso; lo ya escrito en fases anteriores queda como está (sin rollback en modo best_effort).
type TransportError struct {
	Phase string
	Err   error
}

func (e *TransportError) Error() string { return fmt.Sprintf("%s: %v", e.Phase, e.Err) }

func (e *TransportError) Unwrap() error { return e.Err }

func transport(phase string, err error) error {
	return &TransportError{Phase: phase, Err: err}
}

// ── Ledger ────────────────────────────────────────────────────────────────────

// Ledger acceso a las entradas de stock: buscar por producto y ajustar por delta.
// Adjust lee la cantidad que trae la entrada y escribe cantidad+delta (leer y
// luego escribir, sin token de concurrencia).
type Ledger struct {
	repo repository.StockRepository
}

// NewLedger construye el ledger sobre el repositorio de stock (pool o tx).
func NewLedger(repo repository.StockRepository) *Ledger {
	return &Ledger{repo: repo}
}

// FindByProduct devuelve la entrada de stock del producto o nil si no existe.
func (l *Ledger) FindByProduct(ctx context.Context, ownerID, productID string) (*entity.StockEntry, error) {
	return l.repo.FindByProduct(ctx, ownerID, productID)
}

// Adjust escribe entry.Quantity+delta y actualiza entry con el nuevo valor.
// negative indica que el valor escrito quedó por debajo de cero.
func (l *Ledger) Adjust(ctx context.Context, entry *entity.StockEntry, delta decimal.Decimal) (next decimal.Decimal, negative bool, err error) {
	next, negative = inventory.Shift(entry.Quantity, delta)
	if err := l.repo.UpdateQuantity(ctx, entry.UserID, entry.ID, next); err != nil {
		return entry.Quantity, entry.Quantity.IsNegative(), err
	}
	entry.Quantity = next
	return next, negative, nil
}

// ── Reconciler ────────────────────────────────────────────────────────────────

// Reconciler mantiene el stock en línea con las ventas.
//
//	Revert(items): suma cada cantidad a su entrada de stock (deshace una venta).
//	Apply(items):  resta cada cantidad de su entrada de stock (registra una venta).
//
// Productos sin entrada de stock se omiten con advertencia y no se crean entradas.
// Un stock negativo tras Apply se persiste y se informa como advertencia.
// Cualquier error del almacén aborta el resto de las líneas.
type Reconciler struct {
	ledger *Ledger
	log    *logger.Logger
}

// NewReconciler construye el reconciliador sobre el repositorio de stock.
func NewReconciler(stock repository.StockRepository, log *logger.Logger) *Reconciler {
	if log == nil {
		log = logger.Nop()
	}
	return &Reconciler{ledger: NewLedger(stock), log: log}
}

// Revert devuelve al stock las cantidades de items.
func (r *Reconciler) Revert(ctx context.Context, ownerID string, items []entity.SaleItem) ([]Warning, error) {
	return r.shift(ctx, ownerID, items, false)
}

// Apply descuenta del stock las cantidades de items.
func (r *Reconciler) Apply(ctx context.Context, ownerID string, items []entity.SaleItem) ([]Warning, error) {
	return r.shift(ctx, ownerID, items, true)
}

func (r *Reconciler) shift(ctx context.Context, ownerID string, items []entity.SaleItem, apply bool) ([]Warning, error) {
	phase := "revertir stock"
	if apply {
		phase = "descontar stock"
	}
	var warnings []Warning
	for _, it := range items {
		entry, err := r.ledger.FindByProduct(ctx, ownerID, it.ProductID)
		if err != nil {
			r.log.Error().Err(err).Str("product_id", it.ProductID).Str("phase", phase).Msg("buscar stock")
			return warnings, transport(phase, fmt.Errorf("buscar stock de %s: %w", label(it), err))
		}
		if entry == nil {
			r.log.Warn().Str("product_id", it.ProductID).Str("phase", phase).Msg("producto sin entrada de stock, se omite")
			warnings = append(warnings, Warning{
				Code:        WarningStockNotFound,
				ProductID:   it.ProductID,
				ProductName: it.ProductName,
				Quantity:    it.Quantity,
				Message:     notFoundMessage(it, apply),
			})
			continue
		}

		delta := it.Quantity
		if apply {
			delta = delta.Neg()
		}
		next, negative, err := r.ledger.Adjust(ctx, entry, delta)
		if err != nil {
			r.log.Error().Err(err).Str("stock_id", entry.ID).Str("phase", phase).Msg("actualizar stock")
			return warnings, transport(phase, fmt.Errorf("actualizar stock de %s: %w", label(it), err))
		}
		r.log.Debug().
			Str("stock_id", entry.ID).
			Str("product_id", it.ProductID).
			Str("delta", delta.String()).
			Str("quantity", next.String()).
			Msg("stock ajustado")

		if apply && negative {
			r.log.Warn().Str("product_id", it.ProductID).Str("quantity", next.String()).Msg("stock negativo")
			warnings = append(warnings, Warning{
				Code:        WarningNegativeStock,
				ProductID:   it.ProductID,
				ProductName: it.ProductName,
				Quantity:    next,
				Message:     fmt.Sprintf("el stock del producto %q quedó negativo (%s)", label(it), next.String()),
			})
		}
	}
	return warnings, nil
}

func notFoundMessage(it entity.SaleItem, apply bool) string {
	if apply {
		return fmt.Sprintf("producto %q vendido, pero no encontrado en el stock para descontar", label(it))
	}
	return fmt.Sprintf("stock del producto %q no encontrado al revertir", label(it))
}

func label(it entity.SaleItem) string {
	if it.ProductName != "" {
		return it.ProductName
	}
	return it.ProductID
}
