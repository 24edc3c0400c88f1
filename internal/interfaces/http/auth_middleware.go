package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/ports"
	"github.com/jhoicas/Ventas-api/internal/application/session"
	"github.com/jhoicas/Ventas-api/pkg/jwt"
)

// LocalSession clave de c.Locals donde queda la sesión autenticada.
const LocalSession = "session"

// AuthMiddleware valida el Bearer Token JWT, rechaza tokens revocados y deja la
// session.Session en c.Locals. denylist puede ser nil (sin revocación).
func AuthMiddleware(jwtSecret string, denylist ports.TokenDenylist) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		if denylist != nil && claims.ID != "" {
			revoked, err := denylist.IsRevoked(c.UserContext(), claims.ID)
			if err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "DENYLIST_UNAVAILABLE", Message: "no se pudo verificar el token, intente más tarde"})
			}
			if revoked {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "REVOKED_TOKEN", Message: "la sesión fue cerrada"})
			}
		}
		c.Locals(LocalSession, session.Session{
			UserID:    claims.UserID,
			Email:     claims.Email,
			TokenID:   claims.ID,
			ExpiresAt: claims.ExpiresAtTime(),
		})
		return c.Next()
	}
}

// GetSession devuelve la sesión del contexto (después del middleware de auth).
// Sin middleware devuelve una sesión vacía, que los casos de uso rechazan.
func GetSession(c *fiber.Ctx) session.Session {
	s, _ := c.Locals(LocalSession).(session.Session)
	return s
}

// GetUserID devuelve el UserID de la sesión.
func GetUserID(c *fiber.Ctx) string {
	return GetSession(c).UserID
}
