package checkout

import (
	"fmt"
	"math/rand"
	"time"

	"golden-palette/internal/logger"
	"golden-palette/internal/models"
	"golden-palette/internal/services/cart"
)

// MaxOrderNumber is the exclusive upper bound of generated order numbers
const MaxOrderNumber = 1_000_000

// NumberGenerator hands out display-only order numbers
type NumberGenerator interface {
	Next() int
}

// RandomNumbers draws order numbers uniformly from [0, MaxOrderNumber).
// Numbers are not unique.
type RandomNumbers struct{}

func (RandomNumbers) Next() int {
	return rand.Intn(MaxOrderNumber)
}

// Service turns a finished cart into an order confirmation
type Service struct {
	numbers NumberGenerator
	logger  *logger.Logger
	now     func() time.Time
}

func NewService(numbers NumberGenerator, log *logger.Logger) *Service {
	if numbers == nil {
		numbers = RandomNumbers{}
	}
	return &Service{
		numbers: numbers,
		logger:  log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// ConfirmOrder validates the checkout form and, on success, returns an order
// carrying a fresh number. Nothing is stored or sent anywhere.
func (s *Service) ConfirmOrder(lines []models.CartLine, req *models.ConfirmOrderRequest, requestID string) (*models.Order, error) {
	if err := ValidateConfirmOrderRequest(req); err != nil {
		s.logger.Warn("checkout_rejected", "Checkout form rejected", requestID, map[string]interface{}{
			"payment_method": req.PaymentMethod,
			"reason":         err.Error(),
		})
		return nil, err
	}

	order := &models.Order{
		Number:        s.numbers.Next(),
		CustomerName:  req.CustomerName,
		PaymentMethod: req.PaymentMethod,
		Lines:         append([]models.CartLine(nil), lines...),
		Total:         cart.Total(lines),
		ConfirmedAt:   s.now(),
	}
	if req.PaymentMethod.RequiresCard() {
		order.Card = &models.CardDetails{
			Number: req.CardNumber,
			Expiry: req.CardExpiry,
			CVC:    req.CardCVC,
		}
	}

	s.logger.Info("order_confirmed", "Order confirmed", requestID, map[string]interface{}{
		"order_number":   order.Number,
		"payment_method": order.PaymentMethod,
		"total":          order.Total.String(),
		"lines":          len(order.Lines),
	})

	return order, nil
}

// FormatConfirmation renders the thank-you line shown after checkout
func FormatConfirmation(order *models.Order) string {
	return fmt.Sprintf("Thank you, %s! Your order number is #%d.", order.CustomerName, order.Number)
}

// NewConfirmOrderResponse wraps an order for clients
func NewConfirmOrderResponse(order *models.Order) *models.ConfirmOrderResponse {
	return &models.ConfirmOrderResponse{
		OrderNumber: order.Number,
		Message:     FormatConfirmation(order),
		Total:       order.Total,
		Order:       order,
	}
}
