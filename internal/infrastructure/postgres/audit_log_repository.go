package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/dental-lab-api/internal/domain/entity"
	"github.com/tu-usuario/dental-lab-api/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo implementación append-only del registro de auditoría sobre
// PostgreSQL. No existe Update ni Delete: las entradas son hechos inmutables.
type AuditLogRepo struct {
	q Querier
}

// NewAuditLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditLogRepository(q Querier) *AuditLogRepo {
	return &AuditLogRepo{q: q}
}

// Append agrega una entrada. Debe ejecutarse en la misma transacción que la
// mutación que describe.
func (r *AuditLogRepo) Append(ctx context.Context, e *entity.AuditLog) error {
	const q = `
		INSERT INTO audit_logs (id, actor_id, action, entity_type, entity_id, old_value, new_value, reason, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	_, err := r.q.Exec(ctx, q,
		e.ID, e.ActorID, e.Action, e.EntityType, e.EntityID,
		e.OldValue, e.NewValue, e.Reason, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit_log: %w", err)
	}
	return nil
}

// ListByEntity devuelve el historial completo de una entidad en orden
// cronológico ascendente.
func (r *AuditLogRepo) ListByEntity(ctx context.Context, entityType, entityID string) ([]*entity.AuditLog, error) {
	const q = `
		SELECT id, actor_id, action, entity_type, entity_id, old_value, new_value, reason, created_at
		FROM audit_logs
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at ASC, id ASC`
	rows, err := r.q.Query(ctx, q, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("list audit_logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditLog
	for rows.Next() {
		var e entity.AuditLog
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.EntityType, &e.EntityID,
			&e.OldValue, &e.NewValue, &e.Reason, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit_log: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
