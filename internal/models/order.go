package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod represents how the customer pays
type PaymentMethod string

const (
	Cash       PaymentMethod = "Cash"
	Visa       PaymentMethod = "Visa"
	Mastercard PaymentMethod = "Mastercard"
	Paypal     PaymentMethod = "Paypal"
)

// Valid reports whether m is one of the accepted payment methods
func (m PaymentMethod) Valid() bool {
	switch m {
	case Cash, Visa, Mastercard, Paypal:
		return true
	}
	return false
}

// RequiresCard reports whether card details must accompany the method
func (m PaymentMethod) RequiresCard() bool {
	return m != Cash
}

// CardDetails holds the card fields collected for non-cash payments
type CardDetails struct {
	Number string `json:"card_number"`
	Expiry string `json:"card_expiry"`
	CVC    string `json:"-"`
}

// ConfirmOrderRequest represents the checkout form
type ConfirmOrderRequest struct {
	CustomerName  string        `json:"customer_name"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	CardNumber    string        `json:"card_number,omitempty"`
	CardExpiry    string        `json:"card_expiry,omitempty"`
	CardCVC       string        `json:"card_cvc,omitempty"`
}

// Order is a confirmed, display-only order
type Order struct {
	Number        int             `json:"order_number"`
	CustomerName  string          `json:"customer_name"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Card          *CardDetails    `json:"card,omitempty"`
	Lines         []CartLine      `json:"lines"`
	Total         decimal.Decimal `json:"total"`
	ConfirmedAt   time.Time       `json:"confirmed_at"`
}

// ConfirmOrderResponse represents the response after confirming an order
type ConfirmOrderResponse struct {
	OrderNumber int             `json:"order_number"`
	Message     string          `json:"message"`
	Total       decimal.Decimal `json:"total"`
	Order       *Order          `json:"order"`
}
