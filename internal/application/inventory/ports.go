package inventory

import (
	"context"

	"github.com/tu-usuario/dental-lab-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios del ledger de lotes atados a esa tx. La misma implementación
// Postgres sirve también al motor de hojas (worksheet.TxRunner).
type TxRunner interface {
	RunInventory(ctx context.Context, fn func(
		lotRepo repository.MaterialLotRepository,
		materialRepo repository.MaterialRepository,
		auditRepo repository.AuditLogRepository,
	) error) error
}
