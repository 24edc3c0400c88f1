package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// SaleHandler maneja ventas y su comprobante.
type SaleHandler struct {
	uc      *sales.UseCase
	receipt *sales.ReceiptUseCase
}

// NewSaleHandler construye el handler. receipt puede ser nil (sin comprobante PDF).
func NewSaleHandler(uc *sales.UseCase, receipt *sales.ReceiptUseCase) *SaleHandler {
	return &SaleHandler{uc: uc, receipt: receipt}
}

// List godoc
// @Summary      Listar ventas con búsqueda, orden y paginación
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        search   query     string  false  "cliente, estado, notas o producto"
// @Param        sort_by  query     string  false  "sale_date | total_amount | status | customer_name"
// @Param        order    query     string  false  "asc | desc"
// @Param        limit    query     int     false  "máximo 100"
// @Param        offset   query     int     false  "desplazamiento"
// @Success      200      {object}  dto.SaleListResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	q := repository.SaleQuery{
		Search:   c.Query("search"),
		SortBy:   c.Query("sort_by"),
		SortDesc: !strings.EqualFold(c.Query("order", "desc"), "asc"),
		Limit:    c.QueryInt("limit", 0),
		Offset:   c.QueryInt("offset", 0),
	}
	out, err := h.uc.List(c.UserContext(), GetSession(c), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener venta con líneas
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetSession(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Registrar venta (descuenta stock)
// @Description  Los productos sin entrada de stock o que quedan en negativo se informan en warnings.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.SaleRequest  true  "cliente, fecha, estado, notas y líneas"
// @Success      201   {object}  dto.SaleMutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.SaleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetSession(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Editar venta (revierte las líneas viejas y aplica las nuevas)
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "ID de la venta"
// @Param        body  body      dto.SaleRequest  true  "venta completa"
// @Success      200   {object}  dto.SaleMutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [put]
func (h *SaleHandler) Update(c *fiber.Ctx) error {
	var in dto.SaleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetSession(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar venta (devuelve las cantidades al stock)
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleMutationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [delete]
func (h *SaleHandler) Delete(c *fiber.Ctx) error {
	out, err := h.uc.Delete(c.UserContext(), GetSession(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Descargar comprobante PDF de la venta
// @Tags         sales
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt [get]
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	if h.receipt == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{Code: "NOT_IMPLEMENTED", Message: "comprobante no disponible"})
	}
	pdf, filename, err := h.receipt.Receipt(c.UserContext(), GetSession(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(pdf)
}
