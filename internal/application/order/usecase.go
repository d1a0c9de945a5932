// Package order expone el alta y consulta mínimas de órdenes. La gestión
// completa de órdenes (clientes, precios, entregas) es un sistema externo: aquí
// solo vive lo que el motor de hojas necesita para tener una orden a la cual
// asignarse.
package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/dental-lab-api/internal/domain"
	"github.com/tu-usuario/dental-lab-api/internal/domain/entity"
	"github.com/tu-usuario/dental-lab-api/internal/domain/repository"
)

// UseCase alta y consulta de órdenes.
type UseCase struct {
	orders repository.OrderRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(orders repository.OrderRepository) *UseCase {
	return &UseCase{orders: orders}
}

// Create registra una orden recibida del cliente.
func (uc *UseCase) Create(ctx context.Context, number, clientRef string) (*entity.Order, error) {
	if number == "" {
		return nil, fmt.Errorf("%w: número de orden requerido", domain.ErrInvalidInput)
	}
	now := time.Now()
	o := &entity.Order{
		ID:        uuid.NewString(),
		Number:    number,
		ClientRef: clientRef,
		Status:    entity.OrderStatusReceived,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.orders.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// Get devuelve la orden por id.
func (uc *UseCase) Get(ctx context.Context, id string) (*entity.Order, error) {
	o, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("%w: orden %s", domain.ErrNotFound, id)
	}
	return o, nil
}

// List devuelve todas las órdenes.
func (uc *UseCase) List(ctx context.Context) ([]*entity.Order, error) {
	return uc.orders.List(ctx)
}
