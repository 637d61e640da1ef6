package repository

import (
	"context"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
)

// LineItemRepository define el puerto para los productos de una transacción.
// GetForUpdate devuelve (nil, nil) si no hay ítem para el par.
type LineItemRepository interface {
	GetForUpdate(ctx context.Context, transactionID, productID string) (*entity.LineItem, error)
	// Upsert crea o actualiza el ítem del par sin tocar los demás ítems de la transacción.
	Upsert(ctx context.Context, item *entity.LineItem) error
}
