package worksheet

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/dental-lab-api/internal/application/dto"
	"github.com/tu-usuario/dental-lab-api/internal/domain"
	"github.com/tu-usuario/dental-lab-api/internal/domain/entity"
	"github.com/tu-usuario/dental-lab-api/internal/domain/odontogram"
)

// Las tres asignaciones comparten el mismo contrato: solo en EDITABLE, reemplazo
// completo del conjunto de hijos (nunca merge incremental), validación de
// referencias antes de escribir y una entrada de auditoría por llamada.

// AssignTeeth reemplaza el odontograma de la hoja.
func (uc *UseCase) AssignTeeth(ctx context.Context, worksheetID string, in dto.AssignTeethRequest, actorID string) error {
	if err := odontogram.ValidateCodes(in.ToothCodes); err != nil {
		return err
	}
	return uc.txRunner.Run(ctx, func(r TxRepos) error {
		ws, err := uc.editable(ctx, r, worksheetID)
		if err != nil {
			return err
		}
		now := time.Now()
		teeth := make([]*entity.WorksheetTooth, 0, len(in.ToothCodes))
		for _, code := range in.ToothCodes {
			teeth = append(teeth, &entity.WorksheetTooth{
				ID:          uuid.New().String(),
				WorksheetID: ws.ID,
				ToothCode:   code,
				CreatedAt:   now,
			})
		}
		if err := r.Teeth.Replace(ctx, ws.ID, teeth); err != nil {
			return err
		}
		newVal := snapshot(map[string]any{"tooth_codes": in.ToothCodes})
		return r.Audit.Append(ctx, newEntry(actorID, entity.AuditWorksheetTeethAssigned, entity.AuditEntityWorksheet, ws.ID, nil, newVal, "", now))
	})
}

// AssignProducts reemplaza las líneas de producto de la hoja.
func (uc *UseCase) AssignProducts(ctx context.Context, worksheetID string, in dto.AssignProductsRequest, actorID string) error {
	return uc.txRunner.Run(ctx, func(r TxRepos) error {
		ws, err := uc.editable(ctx, r, worksheetID)
		if err != nil {
			return err
		}
		now := time.Now()
		items := make([]*entity.WorksheetProduct, 0, len(in.Items))
		auditLines := make([]map[string]any, 0, len(in.Items))
		for _, line := range in.Items {
			if line.ProductID == "" || line.Quantity <= 0 {
				return fmt.Errorf("%w: línea de producto requiere product_id y cantidad positiva", domain.ErrInvalidInput)
			}
			product, err := r.Products.GetByID(ctx, line.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("%w: producto %s", domain.ErrInvalidReference, line.ProductID)
			}
			items = append(items, &entity.WorksheetProduct{
				ID:          uuid.New().String(),
				WorksheetID: ws.ID,
				ProductID:   line.ProductID,
				Quantity:    line.Quantity,
				Note:        line.Note,
				CreatedAt:   now,
			})
			auditLines = append(auditLines, map[string]any{"product_id": line.ProductID, "quantity": line.Quantity})
		}
		if err := r.Items.Replace(ctx, ws.ID, items); err != nil {
			return err
		}
		newVal := snapshot(map[string]any{"items": auditLines})
		return r.Audit.Append(ctx, newEntry(actorID, entity.AuditWorksheetProductsAssigned, entity.AuditEntityWorksheet, ws.ID, nil, newVal, "", now))
	})
}

// AssignMaterials reemplaza los planes de consumo de material de la hoja.
// Mientras la hoja es editable todo registro es de planificación (lote nulo);
// los lotes concretos se resuelven al entrar a IN_PRODUCTION.
func (uc *UseCase) AssignMaterials(ctx context.Context, worksheetID string, in dto.AssignMaterialsRequest, actorID string) error {
	return uc.txRunner.Run(ctx, func(r TxRepos) error {
		ws, err := uc.editable(ctx, r, worksheetID)
		if err != nil {
			return err
		}
		now := time.Now()
		plans := make([]*entity.WorksheetMaterial, 0, len(in.Plans))
		auditLines := make([]map[string]any, 0, len(in.Plans))
		for _, line := range in.Plans {
			if line.MaterialID == "" || !line.Quantity.GreaterThan(decimal.Zero) {
				return fmt.Errorf("%w: plan de material requiere material_id y cantidad positiva", domain.ErrInvalidInput)
			}
			material, err := r.Materials.GetByID(ctx, line.MaterialID)
			if err != nil {
				return err
			}
			if material == nil {
				return fmt.Errorf("%w: material %s", domain.ErrInvalidReference, line.MaterialID)
			}
			plans = append(plans, &entity.WorksheetMaterial{
				ID:          uuid.New().String(),
				WorksheetID: ws.ID,
				MaterialID:  line.MaterialID,
				Quantity:    line.Quantity,
				Note:        line.Note,
				CreatedAt:   now,
			})
			auditLines = append(auditLines, map[string]any{"material_id": line.MaterialID, "quantity": line.Quantity.String()})
		}
		if err := r.Plans.Replace(ctx, ws.ID, plans); err != nil {
			return err
		}
		newVal := snapshot(map[string]any{"plans": auditLines})
		return r.Audit.Append(ctx, newEntry(actorID, entity.AuditWorksheetMaterialsAssigned, entity.AuditEntityWorksheet, ws.ID, nil, newVal, "", now))
	})
}

// editable carga la hoja con la fila bloqueada y exige estado EDITABLE.
func (uc *UseCase) editable(ctx context.Context, r TxRepos, worksheetID string) (*entity.Worksheet, error) {
	ws, err := r.Worksheets.GetByIDForUpdate(ctx, worksheetID)
	if err != nil {
		return nil, err
	}
	if ws == nil || ws.DeletedAt != nil {
		return nil, fmt.Errorf("%w: hoja %s", domain.ErrNotFound, worksheetID)
	}
	if ws.Status != entity.WorksheetStatusEditable {
		return nil, fmt.Errorf("%w: hoja %s en estado %s", domain.ErrNotEditable, ws.Number, ws.Status)
	}
	return ws, nil
}
