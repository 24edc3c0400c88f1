package dto

import "time"

// ProfileRequest entrada de PUT /api/profile.
type ProfileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// ProfileResponse perfil del usuario. Persisted es false cuando se armó desde los datos de la cuenta.
type ProfileResponse struct {
	UserID    string    `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	AvatarURL string    `json:"avatar_url"`
	Persisted bool      `json:"persisted"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AvatarResponse salida de POST /api/profile/avatar.
type AvatarResponse struct {
	AvatarURL string   `json:"avatar_url"`
	Path      string   `json:"path"`
	Warnings  []string `json:"warnings"`
}
