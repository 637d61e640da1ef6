package repository

import (
	"context"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
)

// TransactionRepository define el puerto de lectura de transacciones.
// GetByID carga también la caja dueña; devuelve (nil, nil) si no existe.
type TransactionRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Transaction, error)
}
