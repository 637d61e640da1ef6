package postgres

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Caja-api/internal/domain"
)

// Códigos SQLSTATE relevantes.
const (
	codeUniqueViolation      = "23505"
	codeCheckViolation       = "23514"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// translateTxError convierte los fallos de concurrencia del motor en errores de dominio.
// Los errores de negocio y los desconocidos pasan sin cambios.
func translateTxError(err error) error {
	if err == nil {
		return nil
	}
	switch code := pgCode(err); code {
	case codeLockNotAvailable, codeSerializationFailure, codeDeadlockDetected, codeUniqueViolation:
		return fmt.Errorf("%w: sqlstate %s", domain.ErrConflict, code)
	case codeCheckViolation:
		// products.stock_quantity >= 0 o transaction_products.quantity > 0
		return fmt.Errorf("%w: %v", domain.ErrInsufficientStock, err)
	}
	return err
}

// validUUID evita enviar a Postgres identificadores que no pueden existir (columna uuid).
func validUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
