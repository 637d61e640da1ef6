package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Caja-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AddProduct productAdder
	AuthUC     authenticator
	JWTSecret  string
	Log        *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.Log)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	transactions := protected.Group("/transactions")
	transactionHandler := NewTransactionHandler(deps.AddProduct, deps.Log)
	transactions.Post("/:transactionId/products/:productId", transactionHandler.AddProduct)
}
