package entity

import (
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain"
)

// Profile datos personales editables del usuario (pantalla de configuración).
type Profile struct {
	ID        string
	UserID    string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	AvatarURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProfile construye el perfil de u con el id indicado. Ambos son obligatorios.
func NewProfile(id string, u *User) (*Profile, error) {
	if id == "" {
		return nil, domain.NewValidationError("el perfil requiere un id")
	}
	if u == nil || u.ID == "" {
		return nil, domain.NewValidationError("usuario no autenticado")
	}
	p := ProfileFromUser(u)
	p.ID = id
	return p, nil
}

// DisplayName nombre a mostrar en el dashboard: primer nombre o, si falta, el email.
func (p *Profile) DisplayName(fallbackEmail string) string {
	if p != nil && p.FirstName != "" {
		return p.FirstName
	}
	return fallbackEmail
}

// ProfileFromUser construye un perfil a partir de los metadatos del usuario
// cuando todavía no existe la fila en profiles.
func ProfileFromUser(u *User) *Profile {
	if u == nil {
		return nil
	}
	return &Profile{
		UserID:    u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
