package repository

import (
	"context"

	"github.com/tu-usuario/dental-lab-api/internal/domain/entity"
)

// WorksheetRepository define el puerto de persistencia de hojas de trabajo.
// Los métodos ForUpdate bloquean la fila (SELECT ... FOR UPDATE) para que el
// validador de transiciones opere sobre el estado releído dentro de la misma
// transacción que lo escribe.
type WorksheetRepository interface {
	Create(ctx context.Context, ws *entity.Worksheet) error
	GetByID(ctx context.Context, id string) (*entity.Worksheet, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Worksheet, error)
	// GetActiveByOrder devuelve la hoja activa de la orden (según
	// entity.Worksheet.Active), o nil si no hay ninguna.
	GetActiveByOrder(ctx context.Context, orderID string) (*entity.Worksheet, error)
	// MaxRevisionByOrder devuelve la revisión más alta emitida para la orden (0 si ninguna).
	MaxRevisionByOrder(ctx context.Context, orderID string) (int, error)
	Update(ctx context.Context, ws *entity.Worksheet) error
	List(ctx context.Context, includeDeleted bool) ([]*entity.Worksheet, error)
}
