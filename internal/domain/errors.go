package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	// ErrNotFound también se usa cuando el usuario no es dueño de la caja: no revela si el recurso existe.
	ErrNotFound                     = errors.New("recurso no encontrado")
	ErrRegisterClosed               = errors.New("la caja está cerrada")
	ErrInvalidStatusForLineItemEdit = errors.New("estado de la transacción no permite agregar o quitar productos")
	ErrInsufficientStock            = errors.New("stock insuficiente")
	ErrInvalidInput                 = errors.New("entrada inválida")
	ErrConflict                     = errors.New("conflicto con el estado actual")
	ErrUnauthorized                 = errors.New("no autorizado")
)

// IsRetryable indica si el caller puede reintentar la operación.
// Solo los conflictos de concurrencia lo son; las reglas de negocio son terminales.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict)
}
