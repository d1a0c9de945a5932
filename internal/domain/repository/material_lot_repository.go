package repository

import (
	"context"
	"time"

	"github.com/tu-usuario/dental-lab-api/internal/domain/entity"
)

// MaterialLotRepository define el puerto del libro de lotes (ledger).
type MaterialLotRepository interface {
	Create(ctx context.Context, lot *entity.MaterialLot) error
	GetByID(ctx context.Context, id string) (*entity.MaterialLot, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.MaterialLot, error)
	// ListEligibleForUpdate devuelve los candidatos FIFO del material bloqueados
	// con FOR UPDATE: estado AVAILABLE, disponible > 0, sin caducar a la fecha,
	// ordenados por fecha de llegada ascendente y desempate por ID. El bloqueo
	// impide que dos consumidores concurrentes gasten dos veces el mismo stock.
	ListEligibleForUpdate(ctx context.Context, materialID string, today time.Time) ([]*entity.MaterialLot, error)
	Update(ctx context.Context, lot *entity.MaterialLot) error
	ListByMaterial(ctx context.Context, materialID string) ([]*entity.MaterialLot, error)
	// ExpireAvailableBefore marca EXPIRED todo lote AVAILABLE con caducidad
	// anterior a la fecha; devuelve cuántos cambió (barrido diario).
	ExpireAvailableBefore(ctx context.Context, today time.Time) (int64, error)
}
