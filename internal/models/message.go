package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MealSubmittedMessage is broadcast on the menu updates exchange after a chef adds a dish
type MealSubmittedMessage struct {
	ItemID      string          `json:"item_id"`
	Name        string          `json:"name"`
	Category    Category        `json:"category"`
	Price       decimal.Decimal `json:"price"`
	SubmittedAt time.Time       `json:"submitted_at"`
}

// Type names the event for dispatchers
func (m MealSubmittedMessage) Type() string { return "MealSubmitted" }

// NewMealSubmittedMessage creates the broadcast for a freshly stored item
func NewMealSubmittedMessage(item MenuItem) *MealSubmittedMessage {
	return &MealSubmittedMessage{
		ItemID:      item.ID,
		Name:        item.Name,
		Category:    item.Category,
		Price:       item.Price,
		SubmittedAt: time.Now().UTC(),
	}
}
