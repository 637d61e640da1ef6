package transaction

import (
	"context"

	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; nada de lo escrito queda visible.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		lineItemRepo repository.LineItemRepository,
	) error) error
}
