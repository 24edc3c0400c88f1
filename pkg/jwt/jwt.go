package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// ID (jti) identifica el token para poder revocarlo en el logout.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Token token firmado con su identificador y vencimiento.
type Token struct {
	Value     string
	ID        string
	ExpiresAt time.Time
}

// Generate genera un token JWT firmado con userID y email. Cada token recibe un jti nuevo.
func Generate(secret, userID, email, issuer string, expMinutes int) (*Token, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	if expMinutes <= 0 {
		return nil, fmt.Errorf("jwt: expiración inválida: %d", expMinutes)
	}
	now := time.Now()
	exp := now.Add(time.Duration(expMinutes) * time.Minute)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		UserID: userID,
		Email:  email,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return nil, err
	}
	return &Token{Value: signed, ID: claims.ID, ExpiresAt: exp}, nil
}

// Parse valida el token y devuelve sus claims.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("claims inválidos: user_id vacío")
	}
	return claims, nil
}

// ExpiresAtTime vencimiento de los claims, o el instante cero si no lo traen.
func (c *Claims) ExpiresAtTime() time.Time {
	if c == nil || c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}
