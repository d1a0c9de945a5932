package repository

import (
	"context"

	"github.com/tu-usuario/dental-lab-api/internal/domain/entity"
)

// OrderRepository es el puerto hacia la gestión de órdenes (colaborador externo):
// el motor solo necesita leer la orden, bloquearla mientras decide la regla de
// "una hoja activa por orden" y mover su estado al asignar o cancelar.
type OrderRepository interface {
	Create(ctx context.Context, o *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Order, error)
	UpdateStatus(ctx context.Context, id, status string) error
	List(ctx context.Context) ([]*entity.Order, error)
}
