package worksheet

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/dental-lab-api/internal/application/dto"
	"github.com/tu-usuario/dental-lab-api/internal/domain"
	"github.com/tu-usuario/dental-lab-api/internal/domain/entity"
	domaininv "github.com/tu-usuario/dental-lab-api/internal/domain/inventory"
	"github.com/tu-usuario/dental-lab-api/internal/domain/workflow"
)

// Transition conduce la hoja al estado destino.
//
// Todo ocurre en una transacción: se relee el estado con la fila bloqueada (la
// validación nunca opera sobre una lectura vieja), se valida la arista y el rol
// contra la tabla de workflow, se ejecutan los efectos declarados en orden y se
// escribe el nuevo estado más la entrada de auditoría. Cualquier fallo hace
// rollback completo y el error original sube sin tocar: no hay aplicación
// parcial visible para el caller.
func (uc *UseCase) Transition(ctx context.Context, worksheetID, target, actorID, role, notes string) (*dto.WorksheetResponse, error) {
	var updated *entity.Worksheet
	err := uc.txRunner.Run(ctx, func(r TxRepos) error {
		ws, err := r.Worksheets.GetByIDForUpdate(ctx, worksheetID)
		if err != nil {
			return err
		}
		if ws == nil || ws.DeletedAt != nil {
			return fmt.Errorf("%w: hoja %s", domain.ErrNotFound, worksheetID)
		}

		edge, err := workflow.ValidateTransition(ws.Status, target, role)
		if err != nil {
			return err
		}

		now := time.Now()
		prev := ws.Status
		for _, effect := range edge.Effects {
			if err := uc.applyEffect(ctx, r, ws, effect, actorID, now); err != nil {
				return err
			}
		}

		ws.Status = target
		ws.UpdatedAt = now
		if err := r.Worksheets.Update(ctx, ws); err != nil {
			return err
		}

		oldVal := snapshot(map[string]any{"status": prev})
		newVal := snapshot(map[string]any{"status": target})
		if err := r.Audit.Append(ctx, newEntry(actorID, entity.AuditWorksheetStatusChanged, entity.AuditEntityWorksheet, ws.ID, oldVal, newVal, notes, now)); err != nil {
			return err
		}
		updated = ws
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("worksheet", updated.Number).Str("status", updated.Status).Msg("transición aplicada")

	// Colaborador de documentos: fire-and-forget después del commit. El motor no
	// espera el render; el hecho durable DOCUMENT_REQUESTED ya quedó en la tx.
	if updated.Status == entity.WorksheetStatusApproved && uc.docs != nil {
		go uc.writeConformityDocument(updated.ID)
	}
	return toResponse(updated), nil
}

// applyEffect despacha un efecto declarado. El switch es exhaustivo sobre el
// enum cerrado de workflow: un efecto no contemplado es un bug de programación,
// no un dato, y se reporta como estado inválido.
func (uc *UseCase) applyEffect(ctx context.Context, r TxRepos, ws *entity.Worksheet, effect workflow.Effect, actorID string, now time.Time) error {
	switch effect {
	case workflow.EffectConsumeMaterials:
		return uc.consumeMaterials(ctx, r, ws, now)
	case workflow.EffectStampManufactureDate:
		ws.ManufactureAt = &now
		return nil
	case workflow.EffectStampCompletionDate:
		ws.CompletedAt = &now
		return nil
	case workflow.EffectRequestConformityDocument:
		newVal := snapshot(map[string]any{"worksheet_number": ws.Number, "document": "conformity"})
		return r.Audit.Append(ctx, newEntry(actorID, entity.AuditDocumentRequested, entity.AuditEntityWorksheet, ws.ID, nil, newVal, "", now))
	case workflow.EffectResetOrder:
		return resetOrder(ctx, r, ws.OrderID, actorID, now)
	}
	return fmt.Errorf("%w: efecto %s sin manejador", domain.ErrInvalidState, effect)
}

// consumeMaterials consume FIFO cada plan pendiente de la hoja (lote nulo).
//
// Por plan: se leen los lotes elegibles del material con las filas bloqueadas
// (FOR UPDATE), se elige el primer lote que cubre la cantidad completa, se
// decrementa (marcando DEPLETED si queda exactamente en 0) y se reemplaza el
// registro de planificación por uno de consumo que referencia el lote. Si algún
// material no alcanza, el error aborta la transición entera: ningún lote ni
// registro queda tocado.
func (uc *UseCase) consumeMaterials(ctx context.Context, r TxRepos, ws *entity.Worksheet, now time.Time) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	plans, err := r.Plans.ListPlanned(ctx, ws.ID)
	if err != nil {
		return err
	}
	for _, plan := range plans {
		candidates, err := r.Lots.ListEligibleForUpdate(ctx, plan.MaterialID, today)
		if err != nil {
			return err
		}
		lot := domaininv.SelectLot(candidates, plan.Quantity)
		if lot == nil {
			code := plan.MaterialID
			if material, merr := r.Materials.GetByID(ctx, plan.MaterialID); merr == nil && material != nil {
				code = material.Code
			}
			return fmt.Errorf("%w: material %s (requerido %s)", domain.ErrInsufficientStock, code, plan.Quantity)
		}

		lot.QuantityAvailable = lot.QuantityAvailable.Sub(plan.Quantity)
		if lot.QuantityAvailable.IsZero() {
			lot.Status = entity.LotStatusDepleted
		}
		lot.UpdatedAt = now
		if err := r.Lots.Update(ctx, lot); err != nil {
			return err
		}

		// Reemplazo plan -> consumo en la misma transacción.
		if err := r.Plans.Delete(ctx, plan.ID); err != nil {
			return err
		}
		lotID := lot.ID
		consumed := &entity.WorksheetMaterial{
			ID:          uuid.New().String(),
			WorksheetID: ws.ID,
			MaterialID:  plan.MaterialID,
			LotID:       &lotID,
			Quantity:    plan.Quantity,
			Note:        plan.Note,
			CreatedAt:   now,
		}
		if err := r.Plans.Create(ctx, consumed); err != nil {
			return err
		}
	}
	return nil
}

// writeConformityDocument carga la trazabilidad ya confirmada y se la entrega al
// colaborador de documentos. Corre en goroutine propia: el error solo se loggea.
func (uc *UseCase) writeConformityDocument(worksheetID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ws, err := uc.worksheetRepo.GetByID(ctx, worksheetID)
	if err != nil || ws == nil {
		uc.log.Error().Err(err).Str("worksheet", worksheetID).Msg("documento de conformidad: hoja no disponible")
		return
	}
	trace, err := uc.GetTraceability(ctx, worksheetID)
	if err != nil {
		uc.log.Error().Err(err).Str("worksheet", ws.Number).Msg("documento de conformidad: trazabilidad no disponible")
		return
	}
	if err := uc.docs.Write(ctx, ws, trace.Rows); err != nil {
		uc.log.Error().Err(err).Str("worksheet", ws.Number).Msg("documento de conformidad: fallo de generación")
		return
	}
	uc.log.Info().Str("worksheet", ws.Number).Msg("documento de conformidad generado")
}
