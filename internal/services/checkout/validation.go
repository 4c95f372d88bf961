package checkout

import (
	"errors"
	"fmt"
	"strings"

	"golden-palette/internal/models"
)

var (
	ErrIncompleteCardInfo   = errors.New("please enter complete card information")
	ErrUnknownPaymentMethod = errors.New("payment method must be one of: Cash, Visa, Mastercard, Paypal")
)

type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e ValidationError) Unwrap() error {
	return e.Err
}

// ValidateConfirmOrderRequest applies the payment gate. Cash never looks at
// the card fields; any other method needs all three to be non-empty. The
// customer name is not checked.
func ValidateConfirmOrderRequest(req *models.ConfirmOrderRequest) error {
	if err := validatePaymentMethod(req.PaymentMethod); err != nil {
		return err
	}

	if !req.PaymentMethod.RequiresCard() {
		return nil
	}

	return validateCardFields(req)
}

func validatePaymentMethod(method models.PaymentMethod) error {
	if !method.Valid() {
		return ValidationError{
			Field:   "payment_method",
			Message: ErrUnknownPaymentMethod.Error(),
			Err:     ErrUnknownPaymentMethod,
		}
	}
	return nil
}

func validateCardFields(req *models.ConfirmOrderRequest) error {
	var missing []string
	if req.CardNumber == "" {
		missing = append(missing, "card_number")
	}
	if req.CardExpiry == "" {
		missing = append(missing, "card_expiry")
	}
	if req.CardCVC == "" {
		missing = append(missing, "card_cvc")
	}

	if len(missing) > 0 {
		return ValidationError{
			Field:   strings.Join(missing, ","),
			Message: ErrIncompleteCardInfo.Error(),
			Err:     ErrIncompleteCardInfo,
		}
	}
	return nil
}
