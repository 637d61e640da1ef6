package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

var _ repository.LineItemRepository = (*LineItemRepo)(nil)

// LineItemRepo productos de una transacción (tabla transaction_products).
type LineItemRepo struct {
	q Querier
}

// NewLineItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLineItemRepository(q Querier) *LineItemRepo {
	return &LineItemRepo{q: q}
}

const lineItemSelect = `
	SELECT transaction_id, product_id, quantity, created_at, updated_at
	FROM transaction_products WHERE transaction_id = $1 AND product_id = $2`

// GetForUpdate obtiene el ítem del par (transacción, producto) bloqueando la fila, o nil si no existe.
func (r *LineItemRepo) GetForUpdate(ctx context.Context, transactionID, productID string) (*entity.LineItem, error) {
	var it entity.LineItem
	err := r.q.QueryRow(ctx, lineItemSelect+` FOR UPDATE`, transactionID, productID).Scan(
		&it.TransactionID, &it.ProductID, &it.Quantity, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get line item: %w", err)
	}
	return &it, nil
}

// Upsert inserta o actualiza la cantidad del ítem; los demás ítems de la transacción no se tocan.
func (r *LineItemRepo) Upsert(ctx context.Context, item *entity.LineItem) error {
	query := `
		INSERT INTO transaction_products (transaction_id, product_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (transaction_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		item.TransactionID, item.ProductID, item.Quantity, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert line item: %w", err)
	}
	return nil
}
