package repository

import (
	"context"

	"github.com/tu-usuario/dental-lab-api/internal/domain/entity"
)

// ProductRepository define el puerto del catálogo de productos/servicios.
type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context) ([]*entity.Product, error)
}
