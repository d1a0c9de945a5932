package repository

import (
	"context"

	"github.com/tu-usuario/dental-lab-api/internal/domain/entity"
)

// MaterialRepository define el puerto del catálogo de materias primas.
type MaterialRepository interface {
	Create(ctx context.Context, m *entity.Material) error
	GetByID(ctx context.Context, id string) (*entity.Material, error)
	GetByCode(ctx context.Context, code string) (*entity.Material, error)
	List(ctx context.Context) ([]*entity.Material, error)
}
