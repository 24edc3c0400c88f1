package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/internal/domain"
)

// writeError traduce un error de caso de uso a status HTTP y dto.ErrorResponse.
func writeError(c *fiber.Ctx, err error) error {
	status, body := mapError(err)
	return c.Status(status).JSON(body)
}

func mapError(err error) (int, dto.ErrorResponse) {
	if msg := domain.ValidationMessage(err); msg != "" {
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: msg}
	}
	var te *sales.TransportError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"}
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "el email ya está registrado"}
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "DUPLICATE", Message: "el recurso ya existe"}
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "CONFLICT", Message: "el recurso está referenciado por otros registros"}
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: "cuenta inactiva o suspendida"}
	case errors.Is(err, domain.ErrStorageUnavailable):
		return fiber.StatusServiceUnavailable, dto.ErrorResponse{Code: "STORAGE_UNAVAILABLE", Message: err.Error()}
	case errors.As(err, &te):
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error al sincronizar el stock: " + te.Error()}
	default:
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()}
	}
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
