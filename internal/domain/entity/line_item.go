package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem asocia un producto a una transacción (tabla transaction_products).
// Clave (TransactionID, ProductID); Quantity siempre > 0.
type LineItem struct {
	TransactionID string
	ProductID     string
	Quantity      decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
