package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/pkg/logger"
)

// writeDomainError traduce un error de dominio a la respuesta HTTP correspondiente.
// Cada tipo de error tiene su propio código; lo no reconocido es 500 y se registra.
func writeDomainError(c *fiber.Ctx, log *logger.Logger, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "transacción o producto no encontrado"})
	case errors.Is(err, domain.ErrRegisterClosed):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "REGISTER_CLOSED", Message: "la caja está cerrada"})
	case errors.Is(err, domain.ErrInvalidStatusForLineItemEdit):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "INVALID_TRANSACTION_STATUS", Message: "la transacción no admite cambios de productos"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrConflict):
		log.Warn().Err(err).Str("path", c.Path()).Msg("conflicto de concurrencia")
		c.Set(fiber.HeaderRetryAfter, "1")
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "recurso ocupado, reintente"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("error inesperado")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}
