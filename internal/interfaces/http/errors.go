package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/dental-lab-api/internal/application/dto"
	"github.com/tu-usuario/dental-lab-api/internal/domain"
)

// mapDomainError traduce los sentinelas de dominio a respuestas HTTP. El mapeo
// usa errors.Is porque los usecases envuelven los sentinelas con contexto
// (número de hoja, código de material, arista intentada) que el mensaje conserva.
func mapDomainError(c *fiber.Ctx, err error) error {
	type mapping struct {
		sentinel error
		status   int
		code     string
	}
	table := []mapping{
		{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
		{domain.ErrInvalidReference, fiber.StatusBadRequest, "INVALID_REFERENCE"},
		{domain.ErrUnauthorized, fiber.StatusForbidden, "ROLE_FORBIDDEN"},
		{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
		{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
		{domain.ErrIllegalTransition, fiber.StatusConflict, "ILLEGAL_TRANSITION"},
		{domain.ErrNotEditable, fiber.StatusConflict, "NOT_EDITABLE"},
		{domain.ErrDuplicateActiveWorksheet, fiber.StatusConflict, "DUPLICATE_ACTIVE_WORKSHEET"},
		{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
		{domain.ErrLotNotRestorable, fiber.StatusConflict, "LOT_NOT_RESTORABLE"},
		{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	}
	for _, m := range table {
		if errors.Is(err, m.sentinel) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	// ErrInvalidState (estado desconocido en BD) y todo lo demás es un 500.
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
