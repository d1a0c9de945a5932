package repository

import (
	"context"

	"github.com/tu-usuario/dental-lab-api/internal/domain/entity"
)

// AuditLogRepository define el puerto del registro de auditoría. Solo expone
// Append y lecturas: la tabla es append-only y no existe Update ni Delete.
type AuditLogRepository interface {
	Append(ctx context.Context, e *entity.AuditLog) error
	ListByEntity(ctx context.Context, entityType, entityID string) ([]*entity.AuditLog, error)
}
