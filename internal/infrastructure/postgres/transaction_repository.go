package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo lectura de transacciones junto con su caja.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// GetByID obtiene la transacción y la caja dueña en una sola consulta.
func (r *TransactionRepo) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	if !validUUID(id) {
		return nil, nil
	}
	query := `
		SELECT t.id, t.register_id, t.status, t.created_at, t.updated_at,
		       r.id, r.user_id, r.opened_at, r.closed_at
		FROM transactions t
		JOIN registers r ON r.id = t.register_id
		WHERE t.id = $1`
	var (
		t      entity.Transaction
		reg    entity.Register
		status string
	)
	err := r.q.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.RegisterID, &status, &t.CreatedAt, &t.UpdatedAt,
		&reg.ID, &reg.UserID, &reg.OpenedAt, &reg.ClosedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	t.Status = entity.TransactionStatus(status)
	t.Register = &reg
	return &t, nil
}
