package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/ports"
)

// StorageHandler sirve los archivos guardados en GridFS (avatares) por su URL pública.
type StorageHandler struct {
	reader ports.ObjectReader
}

// NewStorageHandler construye el handler.
func NewStorageHandler(reader ports.ObjectReader) *StorageHandler {
	return &StorageHandler{reader: reader}
}

// Download GET /storage/:bucket/*
func (h *StorageHandler) Download(c *fiber.Ctx) error {
	path := c.Params("*")
	if path == "" {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "archivo no encontrado"})
	}
	rc, contentType, err := h.reader.Download(c.UserContext(), c.Params("bucket"), path)
	if err != nil {
		return writeError(c, err)
	}
	if contentType != "" {
		c.Set(fiber.HeaderContentType, contentType)
	}
	c.Set(fiber.HeaderCacheControl, "public, max-age=3600")
	// fasthttp cierra rc al terminar de enviar.
	return c.SendStream(rc)
}
