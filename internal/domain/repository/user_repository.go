package repository

import (
	"context"

	"github.com/tu-usuario/dental-lab-api/internal/domain/entity"
)

// UserRepository define el puerto de usuarios (resolución de actor/rol para auth).
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}
