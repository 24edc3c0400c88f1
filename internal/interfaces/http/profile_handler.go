package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/profile"
)

// ProfileHandler pantalla de configuración: datos personales y avatar.
type ProfileHandler struct {
	uc *profile.UseCase
}

// NewProfileHandler construye el handler.
func NewProfileHandler(uc *profile.UseCase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

// Get godoc
// @Summary      Perfil del usuario actual
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.ProfileResponse
// @Router       /api/profile [get]
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetSession(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar perfil
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.ProfileRequest  true  "nombre, apellido, email, teléfono"
// @Success      200   {object}  dto.ProfileResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/profile [put]
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	var in dto.ProfileRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetSession(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UploadAvatar godoc
// @Summary      Subir avatar (jpeg, png, gif o webp; máximo 5 MB)
// @Tags         profile
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        avatar  formData  file  true  "imagen"
// @Success      200     {object}  dto.AvatarResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      503     {object}  dto.ErrorResponse
// @Router       /api/profile/avatar [post]
func (h *ProfileHandler) UploadAvatar(c *fiber.Ctx) error {
	fh, err := c.FormFile("avatar")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "seleccione una imagen"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "no se pudo leer el archivo"})
	}
	defer f.Close()

	out, err := h.uc.UploadAvatar(c.UserContext(), GetSession(c), profile.AvatarUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
