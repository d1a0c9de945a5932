package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/dental-lab-api/internal/application/dto"
	"github.com/tu-usuario/dental-lab-api/internal/application/inventory"
)

// LotHandler maneja el libro de lotes de material (protegido).
type LotHandler struct {
	uc *inventory.LotUseCase
}

// NewLotHandler construye el handler.
func NewLotHandler(uc *inventory.LotUseCase) *LotHandler {
	return &LotHandler{uc: uc}
}

// RegisterArrival godoc
// @Summary      Registrar llegada de un lote de material
// @Tags         lots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterLotRequest  true  "material_id, lot_number, arrival_date, expiry_date, quantity"
// @Success      201   {object}  dto.LotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/lots [post]
func (h *LotHandler) RegisterArrival(c *fiber.Ctx) error {
	var in dto.RegisterLotRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.RegisterArrival(c.Context(), in, GetUserID(c))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Recall godoc
// @Summary      Retirar un lote (recall del fabricante)
// @Description  El lote deja de ser elegible para consumo FIFO de inmediato. Los
//
//	consumos ya registrados no cambian: la trazabilidad los marca.
//
// @Tags         lots
// @Security     Bearer
// @Accept       json
// @Param        id    path  string                true  "Lot ID"
// @Param        body  body  dto.LotStatusRequest  true  "reason (obligatorio)"
// @Success      204
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/lots/{id}/recall [post]
func (h *LotHandler) Recall(c *fiber.Ctx) error {
	var in dto.LotStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.Recall(c.Context(), c.Params("id"), in.Reason, GetUserID(c)); err != nil {
		return mapDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Restore godoc
// @Summary      Restaurar un lote retirado o caducado a AVAILABLE
// @Tags         lots
// @Security     Bearer
// @Accept       json
// @Param        id    path  string                true  "Lot ID"
// @Param        body  body  dto.LotStatusRequest  true  "reason (obligatorio)"
// @Success      204
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/lots/{id}/restore [post]
func (h *LotHandler) Restore(c *fiber.Ctx) error {
	var in dto.LotStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.Restore(c.Context(), c.Params("id"), in.Reason, GetUserID(c)); err != nil {
		return mapDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListByMaterial godoc
// @Summary      Listar lotes de un material (orden FIFO)
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        material_id  query  string  true  "Material ID"
// @Success      200  {array}   dto.LotResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/lots [get]
func (h *LotHandler) ListByMaterial(c *fiber.Ctx) error {
	materialID := c.Query("material_id")
	if materialID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "material_id es requerido"})
	}
	list, err := h.uc.ListByMaterial(c.Context(), materialID)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(list)
}
