package stock

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
)

// GuardInput datos leídos (sin bloqueo) antes de intentar la mutación.
type GuardInput struct {
	Transaction *entity.Transaction // con Register cargado
	Product     *entity.Product
	Quantity    decimal.Decimal
	UserID      string
}

// Guard valida las precondiciones para agregar un producto a una transacción.
// El orden importa y se detiene en el primer fallo:
//  1. el usuario es dueño de la caja (si no, ErrNotFound);
//  2. la caja está abierta;
//  3. la transacción está en estado editable;
//  4. la cantidad no supera el stock actual.
//
// Es solo consultiva: el stock se vuelve a validar bajo bloqueo al confirmar.
func Guard(in GuardInput) error {
	if in.Transaction == nil || in.Transaction.Register == nil || in.Product == nil {
		return domain.ErrNotFound
	}
	if !in.Transaction.Register.OwnedBy(in.UserID) {
		return domain.ErrNotFound
	}
	if in.Transaction.Register.IsClosed() {
		return domain.ErrRegisterClosed
	}
	if !in.Transaction.Status.IsEditable() {
		return domain.ErrInvalidStatusForLineItemEdit
	}
	if in.Quantity.GreaterThan(in.Product.StockQuantity) {
		return domain.ErrInsufficientStock
	}
	return nil
}
