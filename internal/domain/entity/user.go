package entity

import (
	"strings"
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain"
)

// Estados válidos para User.
const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
)

// User representa una cuenta de acceso (equivalente a la tabla de auth del proveedor).
// FirstName, LastName y AvatarURL son los metadatos del usuario.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt
	FirstName    string
	LastName     string
	AvatarURL    string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser construye una cuenta activa. id, email y hash de contraseña son obligatorios.
func NewUser(id, email, passwordHash, firstName, lastName string, now time.Time) (*User, error) {
	email = strings.TrimSpace(email)
	switch {
	case id == "":
		return nil, domain.NewValidationError("el usuario requiere un id")
	case email == "":
		return nil, domain.NewValidationError("email inválido")
	case passwordHash == "":
		return nil, domain.NewValidationError("la contraseña es obligatoria")
	}
	return &User{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		Status:       UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
