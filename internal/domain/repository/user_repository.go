package repository

import (
	"context"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}
