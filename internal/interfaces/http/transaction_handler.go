package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/pkg/logger"
)

// productAdder es el contrato que necesita el handler; lo implementa *transaction.AddProductUseCase.
type productAdder interface {
	AddProductFromRequest(ctx context.Context, userID, transactionID, productID string, in dto.AddProductRequest) error
}

// TransactionHandler maneja las peticiones HTTP sobre productos de una transacción (protegido).
type TransactionHandler struct {
	uc  productAdder
	log *logger.Logger
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(uc productAdder, log *logger.Logger) *TransactionHandler {
	return &TransactionHandler{uc: uc, log: log}
}

// AddProduct godoc
// @Summary      Agregar producto a la transacción
// @Description  Crea el ítem o incrementa su cantidad, descontando el stock del producto en la misma transacción.
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Param        transactionId  path  string                 true  "ID de la transacción (UUID)"
// @Param        productId      path  string                 true  "ID del producto (UUID)"
// @Param        body           body  dto.AddProductRequest  true  "quantity como texto decimal"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/transactions/{transactionId}/products/{productId} [post]
func (h *TransactionHandler) AddProduct(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AddProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido: quantity debe ser texto"})
	}
	if in.Quantity == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "quantity es requerido"})
	}
	err := h.uc.AddProductFromRequest(c.UserContext(), userID, c.Params("transactionId"), c.Params("productId"), in)
	if err != nil {
		return writeDomainError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
