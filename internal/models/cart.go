package models

import "github.com/shopspring/decimal"

// CartLine is the aggregated entry for one menu item in a cart
type CartLine struct {
	ItemName string          `json:"item_name"`
	Price    decimal.Decimal `json:"price"`
	Section  Category        `json:"section"`
	Quantity int             `json:"quantity"`
	Image    string          `json:"image,omitempty"`
}

// Subtotal returns price times quantity for the line
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// AddItemRequest represents a request to add a dish to a session cart
type AddItemRequest struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// CartResponse is the cart summary returned to clients
type CartResponse struct {
	Lines     []CartLine      `json:"lines"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}
