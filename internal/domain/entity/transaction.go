package entity

import "time"

// TransactionStatus estado de una venta. Enumeración cerrada.
type TransactionStatus string

// Estados válidos para Transaction.
const (
	TransactionStatusStarted   TransactionStatus = "STARTED"
	TransactionStatusFinished  TransactionStatus = "FINISHED"
	TransactionStatusCancelled TransactionStatus = "CANCELLED"
)

// IsEditable indica si se pueden agregar o quitar productos en este estado.
func (s TransactionStatus) IsEditable() bool {
	return s == TransactionStatusStarted
}

// Valid indica si el estado pertenece a la enumeración.
func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionStatusStarted, TransactionStatusFinished, TransactionStatusCancelled:
		return true
	}
	return false
}

// Transaction es una venta en curso; pertenece a exactamente una caja.
// Register se carga junto con la transacción (join) para las validaciones de caja.
type Transaction struct {
	ID         string
	RegisterID string
	Status     TransactionStatus
	Register   *Register
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
