package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/dental-lab-api/internal/application/dto"
	"github.com/tu-usuario/dental-lab-api/internal/application/inventory"
)

// MaterialHandler maneja el catálogo mínimo de materias primas (protegido).
type MaterialHandler struct {
	uc *inventory.LotUseCase
}

// NewMaterialHandler construye el handler.
func NewMaterialHandler(uc *inventory.LotUseCase) *MaterialHandler {
	return &MaterialHandler{uc: uc}
}

// Create godoc
// @Summary      Dar de alta un material en el catálogo
// @Tags         materials
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMaterialRequest  true  "code, name, unit"
// @Success      201   {object}  entity.Material
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/materials [post]
func (h *MaterialHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMaterialRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CreateMaterial(c.Context(), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar el catálogo de materiales
// @Tags         materials
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  entity.Material
// @Router       /api/materials [get]
func (h *MaterialHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.ListMaterials(c.Context())
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(list)
}
