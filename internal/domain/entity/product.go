package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain"
)

// Product representa un producto del catálogo de un usuario.
type Product struct {
	ID        string
	UserID    string // dueño del registro
	Name      string
	Price     decimal.Decimal // precio de venta vigente; se copia a la línea al seleccionarlo
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProduct valida y construye un producto. El nombre se guarda sin espacios laterales.
func NewProduct(id, userID, name string, price decimal.Decimal, now time.Time) (*Product, error) {
	p := &Product{ID: id, UserID: userID, CreatedAt: now}
	if err := p.Apply(name, price, now); err != nil {
		return nil, err
	}
	return p, nil
}

// Apply modifica nombre y precio validando las mismas reglas que NewProduct.
func (p *Product) Apply(name string, price decimal.Decimal, now time.Time) error {
	name = strings.TrimSpace(name)
	if p.UserID == "" {
		return domain.NewValidationError("usuario no autenticado")
	}
	if name == "" {
		return domain.NewValidationError("el nombre del producto es obligatorio")
	}
	if price.IsNegative() {
		return domain.NewValidationError("el precio debe ser un número válido mayor o igual a cero")
	}
	p.Name = name
	p.Price = price.Round(2)
	p.UpdatedAt = now
	return nil
}
