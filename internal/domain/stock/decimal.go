// Package stock contiene los servicios de dominio del motor de stock de caja:
// aritmética decimal exacta, política de fusión de ítems y validaciones previas.
package stock

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/domain"
)

// FinalStockScale escala con la que se persiste el stock después de una resta.
const FinalStockScale int32 = 2

// Límites de una cantidad recibida: decimales y dígitos enteros.
const (
	maxQuantityScale         = 18
	maxQuantityIntegerDigits = 20
)

// Add suma a + b truncando (sin redondear) a scale decimales.
func Add(a, b decimal.Decimal, scale int32) decimal.Decimal {
	return a.Add(b).Truncate(scale)
}

// Sub resta a - b truncando (sin redondear) a scale decimales.
func Sub(a, b decimal.Decimal, scale int32) decimal.Decimal {
	return a.Sub(b).Truncate(scale)
}

// ParseQuantity convierte la cantidad recibida como texto en un decimal positivo.
// Nunca pasa por float64. No acepta notación exponencial, más de 18 decimales
// ni más de 20 dígitos enteros.
func ParseQuantity(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "eE") {
		return decimal.Zero, domain.ErrInvalidInput
	}
	q, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, domain.ErrInvalidInput
	}
	if !q.IsPositive() {
		return decimal.Zero, domain.ErrInvalidInput
	}
	if q.Exponent() < -maxQuantityScale || q.NumDigits()+int(q.Exponent()) > maxQuantityIntegerDigits {
		return decimal.Zero, domain.ErrInvalidInput
	}
	return q, nil
}

// FitsPrecision indica si q se puede representar con precision decimales sin perder dígitos.
func FitsPrecision(q decimal.Decimal, precision int32) bool {
	if precision < 0 {
		return false
	}
	return q.Equal(q.Truncate(precision))
}
