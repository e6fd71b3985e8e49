package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kartoffan/labstock/internal/application/dto"
	"github.com/kartoffan/labstock/internal/application/usecase"
)

// LabHandler maneja las peticiones HTTP para laboratorios (protegido).
type LabHandler struct {
	uc *usecase.LabUseCase
}

// NewLabHandler construye el handler.
func NewLabHandler(uc *usecase.LabUseCase) *LabHandler {
	return &LabHandler{uc: uc}
}

// Create godoc
// @Summary      Crear laboratorio
// @Tags         labs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLabRequest  true  "Datos del laboratorio"
// @Success      201   {object}  dto.LabResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/v1/labs [post]
func (h *LabHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLabRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := dto.Validate(in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener un laboratorio por ID
// @Tags         labs
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del laboratorio"
// @Success      200  {object}  dto.LabResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/labs/{id} [get]
func (h *LabHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar laboratorio
// @Tags         labs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del laboratorio"
// @Param        body  body  dto.UpdateLabRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.LabResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/v1/labs/{id} [put]
func (h *LabHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateLabRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := dto.Validate(in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar laboratorios
// @Tags         labs
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Tamaño de página (máx. 100)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.LabListResponse
// @Router       /api/v1/labs [get]
func (h *LabHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	out, err := h.uc.List(c.Context(), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar laboratorio
// @Description  Rechaza con 409 si el laboratorio tiene ítems o movimientos asociados.
// @Tags         labs
// @Security     Bearer
// @Param        id  path  string  true  "ID del laboratorio"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/v1/labs/{id} [delete]
func (h *LabHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
