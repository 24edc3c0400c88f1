package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/inventory"
)

// StockHandler pantalla de stock: alta, suma, ajuste manual y baja.
type StockHandler struct {
	uc *inventory.StockUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *inventory.StockUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// List godoc
// @Summary      Listar stock con nombre de producto
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.StockListResponse
// @Router       /api/stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetSession(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Add godoc
// @Summary      Agregar stock (suma si el producto ya tiene entrada)
// @Tags         stock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.AddStockRequest  true  "producto y cantidad"
// @Success      200   {object}  dto.StockMutationResponse  "cantidad sumada"
// @Success      201   {object}  dto.StockMutationResponse  "entrada creada"
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock [post]
func (h *StockHandler) Add(c *fiber.Ctx) error {
	var in dto.AddStockRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Add(c.UserContext(), GetSession(c), in)
	if err != nil {
		return writeError(c, err)
	}
	status := fiber.StatusOK
	if out.Created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(out)
}

// Set godoc
// @Summary      Reemplazar la cantidad de una entrada de stock
// @Tags         stock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "ID de la entrada"
// @Param        body  body      dto.SetStockRequest  true  "cantidad"
// @Success      200   {object}  dto.StockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/{id} [put]
func (h *StockHandler) Set(c *fiber.Ctx) error {
	var in dto.SetStockRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Set(c.UserContext(), GetSession(c), c.Params("id"), in.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar entrada de stock
// @Tags         stock
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la entrada"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{id} [delete]
func (h *StockHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetSession(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
