package dto

// AddProductRequest body para POST /api/transactions/:transactionId/products/:productId.
// Quantity viaja como texto decimal ("10", "2.50"); nunca como número JSON.
type AddProductRequest struct {
	Quantity string `json:"quantity" validate:"required,numeric"`
}
