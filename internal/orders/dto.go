package orders

import "github.com/google/uuid"

// CartItemInput identifies a product line in a user's cart, with the
// quantity to add or the absolute quantity to set depending on the call.
type CartItemInput struct {
	UserID    int64
	ProductID uuid.UUID
	Quantity  int
}

// StockShortfall describes one product that could not cover its cart line
// at checkout time.
type StockShortfall struct {
	ProductID uuid.UUID `json:"product_id"`
	Requested int       `json:"requested"`
	Available int       `json:"available"`
}
