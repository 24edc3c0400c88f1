// Package sales contiene la aritmética de montos de una venta (servicio de dominio puro).
package sales

import "github.com/shopspring/decimal"

// Escalas con las que se persisten montos y cantidades (NUMERIC(14,2) y NUMERIC(14,3)).
const (
	MoneyPlaces    = 2
	QuantityPlaces = 3
)

// FitsPlaces indica si d no tiene más de places decimales significativos.
func FitsPlaces(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}

// LineTotal total de una línea: cantidad × precio redondeado a 2 decimales.
func LineTotal(quantity, price decimal.Decimal) decimal.Decimal {
	return quantity.Mul(price).Round(MoneyPlaces)
}

// SaleTotal suma los totales de línea. El resultado también se redondea a 2 decimales.
func SaleTotal(lineTotals ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, t := range lineTotals {
		total = total.Add(t)
	}
	return total.Round(MoneyPlaces)
}
