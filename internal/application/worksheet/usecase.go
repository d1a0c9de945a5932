package worksheet

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/dental-lab-api/internal/application/dto"
	"github.com/tu-usuario/dental-lab-api/internal/domain"
	"github.com/tu-usuario/dental-lab-api/internal/domain/entity"
	"github.com/tu-usuario/dental-lab-api/internal/domain/repository"
	"github.com/tu-usuario/dental-lab-api/pkg/logger"
)

// Formato del consecutivo legible de la serie worksheet_number.
const numberFormat = "HT-%06d"

// UseCase es el motor de ciclo de vida de hojas de trabajo: creación numerada,
// asignación de hijos mientras la hoja es editable y transiciones de estado con
// efectos secundarios despachados en la misma transacción.
type UseCase struct {
	txRunner      TxRunner
	worksheetRepo repository.WorksheetRepository
	plansRepo     repository.WorksheetMaterialRepository
	materialRepo  repository.MaterialRepository
	lotRepo       repository.MaterialLotRepository
	auditRepo     repository.AuditLogRepository
	docs          ConformityDocumentWriter
	log           *logger.Logger
}

// NewUseCase construye el motor. Los repositorios sueltos (atados al pool) solo
// sirven lecturas; toda mutación pasa por el TxRunner.
func NewUseCase(
	txRunner TxRunner,
	worksheetRepo repository.WorksheetRepository,
	plansRepo repository.WorksheetMaterialRepository,
	materialRepo repository.MaterialRepository,
	lotRepo repository.MaterialLotRepository,
	auditRepo repository.AuditLogRepository,
	docs ConformityDocumentWriter,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		worksheetRepo: worksheetRepo,
		plansRepo:     plansRepo,
		materialRepo:  materialRepo,
		lotRepo:       lotRepo,
		auditRepo:     auditRepo,
		docs:          docs,
		log:           log,
	}
}

// Create crea la hoja de trabajo de una orden en estado EDITABLE.
//
// Dentro de una sola transacción: bloquea la orden, aplica la regla de "una hoja
// activa por orden" (falla con ErrDuplicateActiveWorksheet nombrando la hoja en
// conflicto), calcula la siguiente revisión, obtiene el consecutivo de la serie
// worksheet_number y mueve la orden a IN_PROGRESS. El contador comparte la
// transacción con la creación: un rollback es la única fuente de huecos.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateWorksheetRequest, actorID string) (*dto.WorksheetResponse, error) {
	if in.OrderID == "" {
		return nil, fmt.Errorf("%w: order_id requerido", domain.ErrInvalidInput)
	}

	var created *entity.Worksheet
	err := uc.txRunner.Run(ctx, func(r TxRepos) error {
		order, err := r.Orders.GetByIDForUpdate(ctx, in.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return fmt.Errorf("%w: orden %s", domain.ErrNotFound, in.OrderID)
		}

		existing, err := r.Worksheets.GetActiveByOrder(ctx, in.OrderID)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateActiveWorksheet, existing.Number)
		}

		maxRev, err := r.Worksheets.MaxRevisionByOrder(ctx, in.OrderID)
		if err != nil {
			return err
		}
		seq, err := r.Sequences.Next(ctx, repository.SeriesWorksheetNumber)
		if err != nil {
			return err
		}

		now := time.Now()
		ws := &entity.Worksheet{
			ID:         uuid.New().String(),
			OrderID:    in.OrderID,
			Number:     fmt.Sprintf(numberFormat, seq),
			Revision:   maxRev + 1,
			Status:     entity.WorksheetStatusEditable,
			PatientRef: in.PatientRef,
			Shade:      in.Shade,
			Notes:      in.Notes,
			CreatedBy:  actorID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := r.Worksheets.Create(ctx, ws); err != nil {
			return err
		}
		if err := r.Orders.UpdateStatus(ctx, order.ID, entity.OrderStatusInProgress); err != nil {
			return err
		}

		// Una sola entrada de auditoría: el paso de la orden a IN_PROGRESS forma
		// parte de la creación y queda resumido en el snapshot.
		newVal := snapshot(map[string]any{
			"number":       ws.Number,
			"revision":     ws.Revision,
			"status":       ws.Status,
			"order_id":     ws.OrderID,
			"order_status": entity.OrderStatusInProgress,
		})
		if err := r.Audit.Append(ctx, newEntry(actorID, entity.AuditWorksheetCreated, entity.AuditEntityWorksheet, ws.ID, nil, newVal, "", now)); err != nil {
			return err
		}
		created = ws
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("worksheet", created.Number).Str("order", created.OrderID).Int("revision", created.Revision).Msg("hoja de trabajo creada")
	return toResponse(created), nil
}

// Delete marca el borrado blando de una hoja que sigue en EDITABLE: sella
// DeletedAt, fuerza el estado CANCELLED y devuelve la orden a RECEIVED. Las hojas
// que ya avanzaron se cancelan o anulan vía Transition y se retienen siempre.
func (uc *UseCase) Delete(ctx context.Context, worksheetID, actorID string) error {
	err := uc.txRunner.Run(ctx, func(r TxRepos) error {
		ws, err := r.Worksheets.GetByIDForUpdate(ctx, worksheetID)
		if err != nil {
			return err
		}
		if ws == nil || ws.DeletedAt != nil {
			return fmt.Errorf("%w: hoja %s", domain.ErrNotFound, worksheetID)
		}
		if ws.Status != entity.WorksheetStatusEditable {
			return fmt.Errorf("%w: la hoja %s está en %s; solo se borra en EDITABLE", domain.ErrConflict, ws.Number, ws.Status)
		}

		now := time.Now()
		prevStatus := ws.Status
		ws.DeletedAt = &now
		ws.Status = entity.WorksheetStatusCancelled
		ws.UpdatedAt = now
		if err := r.Worksheets.Update(ctx, ws); err != nil {
			return err
		}

		oldVal := snapshot(map[string]any{"status": prevStatus, "deleted": false})
		newVal := snapshot(map[string]any{"status": ws.Status, "deleted": true})
		if err := r.Audit.Append(ctx, newEntry(actorID, entity.AuditWorksheetDeleted, entity.AuditEntityWorksheet, ws.ID, oldVal, newVal, "", now)); err != nil {
			return err
		}
		return resetOrder(ctx, r, ws.OrderID, actorID, now)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("worksheet", worksheetID).Msg("hoja de trabajo borrada (soft delete)")
	return nil
}

// Get devuelve una hoja por ID.
func (uc *UseCase) Get(ctx context.Context, worksheetID string) (*dto.WorksheetResponse, error) {
	ws, err := uc.worksheetRepo.GetByID(ctx, worksheetID)
	if err != nil {
		return nil, err
	}
	if ws == nil {
		return nil, fmt.Errorf("%w: hoja %s", domain.ErrNotFound, worksheetID)
	}
	return toResponse(ws), nil
}

// List devuelve las hojas no borradas.
func (uc *UseCase) List(ctx context.Context) ([]*dto.WorksheetResponse, error) {
	list, err := uc.worksheetRepo.List(ctx, false)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.WorksheetResponse, 0, len(list))
	for _, ws := range list {
		out = append(out, toResponse(ws))
	}
	return out, nil
}

// History devuelve la traza de auditoría de la hoja.
func (uc *UseCase) History(ctx context.Context, worksheetID string) ([]*entity.AuditLog, error) {
	return uc.auditRepo.ListByEntity(ctx, entity.AuditEntityWorksheet, worksheetID)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// resetOrder devuelve la orden a RECEIVED con su propia entrada de auditoría
// (la segunda de las transiciones de cancelación/anulación y del borrado).
func resetOrder(ctx context.Context, r TxRepos, orderID, actorID string, now time.Time) error {
	order, err := r.Orders.GetByIDForUpdate(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return fmt.Errorf("%w: orden %s", domain.ErrNotFound, orderID)
	}
	prev := order.Status
	if err := r.Orders.UpdateStatus(ctx, orderID, entity.OrderStatusReceived); err != nil {
		return err
	}
	oldVal := snapshot(map[string]any{"status": prev})
	newVal := snapshot(map[string]any{"status": entity.OrderStatusReceived})
	return r.Audit.Append(ctx, newEntry(actorID, entity.AuditOrderStatusReset, entity.AuditEntityOrder, orderID, oldVal, newVal, "", now))
}

func newEntry(actorID, action, entityType, entityID string, oldVal, newVal json.RawMessage, reason string, now time.Time) *entity.AuditLog {
	return &entity.AuditLog{
		ID:         uuid.New().String(),
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		OldValue:   oldVal,
		NewValue:   newVal,
		Reason:     reason,
		CreatedAt:  now,
	}
}

// snapshot serializa un snapshot de auditoría. Los mapas que serializamos no
// pueden fallar en Marshal; el error se ignora a propósito.
func snapshot(v map[string]any) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}

func toResponse(ws *entity.Worksheet) *dto.WorksheetResponse {
	return &dto.WorksheetResponse{
		ID:            ws.ID,
		OrderID:       ws.OrderID,
		Number:        ws.Number,
		Revision:      ws.Revision,
		Status:        ws.Status,
		PatientRef:    ws.PatientRef,
		Shade:         ws.Shade,
		Notes:         ws.Notes,
		ManufactureAt: ws.ManufactureAt,
		CompletedAt:   ws.CompletedAt,
		DeletedAt:     ws.DeletedAt,
		CreatedAt:     ws.CreatedAt,
	}
}
