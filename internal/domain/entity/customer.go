package entity

import (
	"strings"
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain"
)

// Customer representa un cliente del usuario.
type Customer struct {
	ID        string
	UserID    string
	Name      string
	Email     string
	Phone     string // opcional
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCustomer valida y construye un cliente. Nombre y email son obligatorios.
func NewCustomer(id, userID, name, email, phone string, now time.Time) (*Customer, error) {
	c := &Customer{ID: id, UserID: userID, CreatedAt: now}
	if err := c.Apply(name, email, phone, now); err != nil {
		return nil, err
	}
	return c, nil
}

// Apply reemplaza los datos de contacto del cliente.
func (c *Customer) Apply(name, email, phone string, now time.Time) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if c.UserID == "" {
		return domain.NewValidationError("usuario no autenticado")
	}
	if name == "" || email == "" {
		return domain.NewValidationError("nombre y email son obligatorios")
	}
	c.Name = name
	c.Email = email
	c.Phone = strings.TrimSpace(phone)
	c.UpdatedAt = now
	return nil
}
