package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/dental-lab-api/internal/application/dto"
	"github.com/tu-usuario/dental-lab-api/internal/domain"
	"github.com/tu-usuario/dental-lab-api/internal/domain/entity"
	"github.com/tu-usuario/dental-lab-api/internal/domain/repository"
	"github.com/tu-usuario/dental-lab-api/pkg/logger"
)

// LotUseCase administra el ledger de lotes: llegadas, recall, caducidad y la
// restauración correctiva. El consumo FIFO no vive aquí: lo ejecuta el motor de
// hojas dentro de su propia transacción de transición.
type LotUseCase struct {
	txRunner     TxRunner
	lotRepo      repository.MaterialLotRepository
	materialRepo repository.MaterialRepository
	log          *logger.Logger
}

// NewLotUseCase construye el caso de uso del ledger.
func NewLotUseCase(txRunner TxRunner, lotRepo repository.MaterialLotRepository, materialRepo repository.MaterialRepository, log *logger.Logger) *LotUseCase {
	return &LotUseCase{txRunner: txRunner, lotRepo: lotRepo, materialRepo: materialRepo, log: log}
}

// RegisterArrival da de alta un lote físico: estado AVAILABLE y disponible igual
// a lo recibido. Material inexistente falla con referencia inválida.
func (uc *LotUseCase) RegisterArrival(ctx context.Context, in dto.RegisterLotRequest, actorID string) (*dto.LotResponse, error) {
	if in.MaterialID == "" || in.LotNumber == "" {
		return nil, fmt.Errorf("%w: material_id y lot_number requeridos", domain.ErrInvalidInput)
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: la cantidad recibida debe ser positiva", domain.ErrInvalidInput)
	}
	if in.ExpiryDate != nil && !in.ExpiryDate.After(in.ArrivalDate) {
		return nil, fmt.Errorf("%w: la caducidad debe ser posterior a la llegada", domain.ErrInvalidInput)
	}

	var created *entity.MaterialLot
	err := uc.txRunner.RunInventory(ctx, func(
		lotRepo repository.MaterialLotRepository,
		materialRepo repository.MaterialRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		material, err := materialRepo.GetByID(ctx, in.MaterialID)
		if err != nil {
			return err
		}
		if material == nil {
			return fmt.Errorf("%w: material %s", domain.ErrInvalidReference, in.MaterialID)
		}

		now := time.Now()
		arrival := in.ArrivalDate
		if arrival.IsZero() {
			arrival = now
		}
		lot := &entity.MaterialLot{
			ID:                uuid.New().String(),
			MaterialID:        in.MaterialID,
			LotNumber:         in.LotNumber,
			ArrivalDate:       arrival,
			ExpiryDate:        in.ExpiryDate,
			QuantityReceived:  in.Quantity,
			QuantityAvailable: in.Quantity,
			Status:            entity.LotStatusAvailable,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := lotRepo.Create(ctx, lot); err != nil {
			return err
		}
		newVal, _ := json.Marshal(map[string]any{
			"material": material.Code,
			"lot":      lot.LotNumber,
			"quantity": lot.QuantityReceived.String(),
			"status":   lot.Status,
		})
		if err := auditRepo.Append(ctx, auditEntry(actorID, entity.AuditLotArrived, lot.ID, nil, newVal, "", now)); err != nil {
			return err
		}
		created = lot
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("lot", created.LotNumber).Str("material", created.MaterialID).Msg("lote registrado")
	return toLotResponse(created), nil
}

// Recall retira el lote de circulación (acción unidireccional, motivo obligatorio).
// Deja de ser candidato FIFO de inmediato.
func (uc *LotUseCase) Recall(ctx context.Context, lotID, reason, actorID string) error {
	if reason == "" {
		return fmt.Errorf("%w: el retiro exige motivo", domain.ErrInvalidInput)
	}
	return uc.setStatus(ctx, lotID, entity.LotStatusRecalled, entity.AuditLotRecalled, reason, actorID,
		func(lot *entity.MaterialLot) error {
			if lot.Status != entity.LotStatusAvailable && lot.Status != entity.LotStatusDepleted {
				return fmt.Errorf("%w: lote %s en estado %s", domain.ErrConflict, lot.LotNumber, lot.Status)
			}
			return nil
		})
}

// Restore es la acción correctiva explícita RECALLED|EXPIRED -> AVAILABLE.
// Nunca se dispara sola: siempre un humano, con motivo, y auditada.
func (uc *LotUseCase) Restore(ctx context.Context, lotID, reason, actorID string) error {
	if reason == "" {
		return fmt.Errorf("%w: la restauración exige motivo", domain.ErrInvalidInput)
	}
	return uc.setStatus(ctx, lotID, entity.LotStatusAvailable, entity.AuditLotRestored, reason, actorID,
		func(lot *entity.MaterialLot) error {
			if lot.Status != entity.LotStatusRecalled && lot.Status != entity.LotStatusExpired {
				return fmt.Errorf("%w: lote %s en estado %s", domain.ErrLotNotRestorable, lot.LotNumber, lot.Status)
			}
			return nil
		})
}

// SweepExpired marca EXPIRED todo lote AVAILABLE con caducidad vencida. Lo
// programa el cron diario de cmd/api; una corrida con cambios deja una entrada
// de auditoría con el total.
func (uc *LotUseCase) SweepExpired(ctx context.Context) (int64, error) {
	var count int64
	err := uc.txRunner.RunInventory(ctx, func(
		lotRepo repository.MaterialLotRepository,
		_ repository.MaterialRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		n, err := lotRepo.ExpireAvailableBefore(ctx, today)
		if err != nil {
			return err
		}
		count = n
		if n == 0 {
			return nil
		}
		newVal, _ := json.Marshal(map[string]any{"expired_count": n})
		return auditRepo.Append(ctx, auditEntry("system", entity.AuditLotExpirySweep, "sweep", nil, newVal, "barrido diario de caducidad", now))
	})
	if err != nil {
		return 0, err
	}
	if count > 0 {
		uc.log.Warn().Int64("count", count).Msg("lotes marcados como caducados")
	}
	return count, nil
}

// ListByMaterial devuelve los lotes de un material.
func (uc *LotUseCase) ListByMaterial(ctx context.Context, materialID string) ([]*dto.LotResponse, error) {
	lots, err := uc.lotRepo.ListByMaterial(ctx, materialID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.LotResponse, 0, len(lots))
	for _, lot := range lots {
		out = append(out, toLotResponse(lot))
	}
	return out, nil
}

// CreateMaterial alta mínima de catálogo para que lotes y planes tengan padre.
func (uc *LotUseCase) CreateMaterial(ctx context.Context, in dto.CreateMaterialRequest) (*entity.Material, error) {
	if in.Code == "" || in.Name == "" {
		return nil, fmt.Errorf("%w: code y name requeridos", domain.ErrInvalidInput)
	}
	existing, err := uc.materialRepo.GetByCode(ctx, in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: material %s", domain.ErrConflict, in.Code)
	}
	now := time.Now()
	m := &entity.Material{
		ID:        uuid.New().String(),
		Code:      in.Code,
		Name:      in.Name,
		Unit:      in.Unit,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.materialRepo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// ListMaterials devuelve el catálogo.
func (uc *LotUseCase) ListMaterials(ctx context.Context) ([]*entity.Material, error) {
	return uc.materialRepo.List(ctx)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// setStatus aplica un cambio de estado manual sobre el lote con la fila
// bloqueada, validado por check, y deja la entrada de auditoría.
func (uc *LotUseCase) setStatus(ctx context.Context, lotID, target, action, reason, actorID string, check func(*entity.MaterialLot) error) error {
	err := uc.txRunner.RunInventory(ctx, func(
		lotRepo repository.MaterialLotRepository,
		_ repository.MaterialRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		lot, err := lotRepo.GetByIDForUpdate(ctx, lotID)
		if err != nil {
			return err
		}
		if lot == nil {
			return fmt.Errorf("%w: lote %s", domain.ErrNotFound, lotID)
		}
		if err := check(lot); err != nil {
			return err
		}
		now := time.Now()
		prev := lot.Status
		lot.Status = target
		lot.UpdatedAt = now
		if err := lotRepo.Update(ctx, lot); err != nil {
			return err
		}
		oldVal, _ := json.Marshal(map[string]any{"status": prev})
		newVal, _ := json.Marshal(map[string]any{"status": target})
		return auditRepo.Append(ctx, auditEntry(actorID, action, lot.ID, oldVal, newVal, reason, now))
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("lot", lotID).Str("status", target).Msg("estado de lote actualizado")
	return nil
}

func auditEntry(actorID, action, lotID string, oldVal, newVal json.RawMessage, reason string, now time.Time) *entity.AuditLog {
	return &entity.AuditLog{
		ID:         uuid.New().String(),
		ActorID:    actorID,
		Action:     action,
		EntityType: entity.AuditEntityLot,
		EntityID:   lotID,
		OldValue:   oldVal,
		NewValue:   newVal,
		Reason:     reason,
		CreatedAt:  now,
	}
}

func toLotResponse(lot *entity.MaterialLot) *dto.LotResponse {
	return &dto.LotResponse{
		ID:                lot.ID,
		MaterialID:        lot.MaterialID,
		LotNumber:         lot.LotNumber,
		ArrivalDate:       lot.ArrivalDate,
		ExpiryDate:        lot.ExpiryDate,
		QuantityReceived:  lot.QuantityReceived,
		QuantityAvailable: lot.QuantityAvailable,
		Status:            lot.Status,
	}
}
