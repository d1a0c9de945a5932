package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/dental-lab-api/internal/application/dto"
	"github.com/tu-usuario/dental-lab-api/internal/application/worksheet"
	"github.com/tu-usuario/dental-lab-api/internal/infrastructure/xmlreport"
)

// WorksheetHandler maneja las peticiones HTTP del motor de hojas de trabajo
// (protegido). El handler es deliberadamente delgado: parsea, delega al usecase
// y mapea errores; actor y rol salen del middleware de auth.
type WorksheetHandler struct {
	uc *worksheet.UseCase
}

// NewWorksheetHandler construye el handler.
func NewWorksheetHandler(uc *worksheet.UseCase) *WorksheetHandler {
	return &WorksheetHandler{uc: uc}
}

// Create godoc
// @Summary      Crear hoja de trabajo para una orden
// @Tags         worksheets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateWorksheetRequest  true  "order_id, patient_ref, shade, notes"
// @Success      201   {object}  dto.WorksheetResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/worksheets [post]
func (h *WorksheetHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateWorksheetRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), in, GetUserID(c))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar hojas de trabajo
// @Tags         worksheets
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.WorksheetResponse
// @Router       /api/worksheets [get]
func (h *WorksheetHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context())
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(list)
}

// GetByID godoc
// @Summary      Consultar hoja de trabajo
// @Tags         worksheets
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Worksheet ID"
// @Success      200  {object}  dto.WorksheetResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/worksheets/{id} [get]
func (h *WorksheetHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// AssignTeeth godoc
// @Summary      Reemplazar el odontograma de la hoja (solo EDITABLE)
// @Tags         worksheets
// @Security     Bearer
// @Accept       json
// @Param        id    path  string                 true  "Worksheet ID"
// @Param        body  body  dto.AssignTeethRequest true  "tooth_codes en notación FDI"
// @Success      204
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/worksheets/{id}/teeth [put]
func (h *WorksheetHandler) AssignTeeth(c *fiber.Ctx) error {
	var in dto.AssignTeethRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.AssignTeeth(c.Context(), c.Params("id"), in, GetUserID(c)); err != nil {
		return mapDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AssignProducts godoc
// @Summary      Reemplazar las líneas de producto de la hoja (solo EDITABLE)
// @Tags         worksheets
// @Security     Bearer
// @Accept       json
// @Param        id    path  string                    true  "Worksheet ID"
// @Param        body  body  dto.AssignProductsRequest true  "items"
// @Success      204
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/worksheets/{id}/products [put]
func (h *WorksheetHandler) AssignProducts(c *fiber.Ctx) error {
	var in dto.AssignProductsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.AssignProducts(c.Context(), c.Params("id"), in, GetUserID(c)); err != nil {
		return mapDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AssignMaterials godoc
// @Summary      Reemplazar los planes de material de la hoja (solo EDITABLE)
// @Tags         worksheets
// @Security     Bearer
// @Accept       json
// @Param        id    path  string                     true  "Worksheet ID"
// @Param        body  body  dto.AssignMaterialsRequest true  "plans"
// @Success      204
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/worksheets/{id}/materials [put]
func (h *WorksheetHandler) AssignMaterials(c *fiber.Ctx) error {
	var in dto.AssignMaterialsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.AssignMaterials(c.Context(), c.Params("id"), in, GetUserID(c)); err != nil {
		return mapDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Transition godoc
// @Summary      Ejecutar una transición de estado
// @Description  Valida la arista contra la máquina de estados y el rol del actor,
//
//	ejecuta los efectos declarados (consumo FIFO, fechas, documento de
//	conformidad) en la misma transacción y escribe la auditoría.
//
// @Tags         worksheets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "Worksheet ID"
// @Param        body  body  dto.TransitionRequest  true  "target, notes"
// @Success      200   {object}  dto.WorksheetResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/worksheets/{id}/transition [post]
func (h *WorksheetHandler) Transition(c *fiber.Ctx) error {
	var in dto.TransitionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Target == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "target es requerido"})
	}
	out, err := h.uc.Transition(c.Context(), c.Params("id"), in.Target, GetUserID(c), GetRole(c), in.Notes)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Borrado lógico de la hoja (solo EDITABLE)
// @Tags         worksheets
// @Security     Bearer
// @Param        id  path  string  true  "Worksheet ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/worksheets/{id} [delete]
func (h *WorksheetHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id"), GetUserID(c)); err != nil {
		return mapDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// History godoc
// @Summary      Historial de auditoría de la hoja
// @Tags         worksheets
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Worksheet ID"
// @Success      200  {array}  entity.AuditLog
// @Router       /api/worksheets/{id}/history [get]
func (h *WorksheetHandler) History(c *fiber.Ctx) error {
	list, err := h.uc.History(c.Context(), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(list)
}

// Traceability godoc
// @Summary      Vista de trazabilidad de materiales
// @Description  Materiales planificados y consumidos con lote, llegada, caducidad
//
//	y banderas de cumplimiento (sin consumir, caducado, retirado).
//
// @Tags         worksheets
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Worksheet ID"
// @Success      200  {object}  dto.TraceabilityResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/worksheets/{id}/traceability [get]
func (h *WorksheetHandler) Traceability(c *fiber.Ctx) error {
	view, err := h.uc.GetTraceability(c.Context(), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(view)
}

// TraceabilityXML godoc
// @Summary      Reporte XML de trazabilidad (entrega regulatoria)
// @Tags         worksheets
// @Security     Bearer
// @Produce      xml
// @Param        id  path  string  true  "Worksheet ID"
// @Success      200  {string}  string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/worksheets/{id}/traceability.xml [get]
func (h *WorksheetHandler) TraceabilityXML(c *fiber.Ctx) error {
	view, err := h.uc.GetTraceability(c.Context(), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	out, err := xmlreport.BuildTraceabilityXML(view)
	if err != nil {
		return mapDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	return c.Send(out)
}
