package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain"
)

// ValidateManualQuantity valida la cantidad cargada a mano en la pantalla de stock:
// entero mayor o igual a cero. Las ventas sí pueden dejar el stock negativo.
func ValidateManualQuantity(q decimal.Decimal) error {
	if q.IsNegative() || !q.Equal(q.Truncate(0)) {
		return domain.NewValidationError("la cantidad debe ser un número entero mayor o igual a cero")
	}
	return nil
}

// Shift devuelve la cantidad resultante de aplicar delta y si quedó por debajo de cero.
func Shift(current, delta decimal.Decimal) (next decimal.Decimal, negative bool) {
	next = current.Add(delta)
	return next, next.IsNegative()
}
