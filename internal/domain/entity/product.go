package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo con su stock global.
// DecimalPrecision fija la escala de toda la aritmética sobre este producto (unidad de medida).
type Product struct {
	ID               string
	Name             string
	StockQuantity    decimal.Decimal // nunca negativo
	DecimalPrecision int32
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
