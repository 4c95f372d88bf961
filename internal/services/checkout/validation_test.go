package checkout

import (
	"errors"
	"testing"

	"golden-palette/internal/models"
)

func TestValidateConfirmOrderRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     *models.ConfirmOrderRequest
		wantErr error
	}{
		{
			name: "cash with empty card fields",
			req:  &models.ConfirmOrderRequest{CustomerName: "Thandi", PaymentMethod: models.Cash},
		},
		{
			name: "cash ignores leftover partial card fields",
			req: &models.ConfirmOrderRequest{
				CustomerName:  "Thandi",
				PaymentMethod: models.Cash,
				CardNumber:    "4111",
			},
		},
		{
			name: "visa with all card fields",
			req: &models.ConfirmOrderRequest{
				PaymentMethod: models.Visa,
				CardNumber:    "4111111111111111",
				CardExpiry:    "12/27",
				CardCVC:       "123",
			},
		},
		{
			name: "visa missing number",
			req: &models.ConfirmOrderRequest{
				PaymentMethod: models.Visa,
				CardExpiry:    "12/27",
				CardCVC:       "123",
			},
			wantErr: ErrIncompleteCardInfo,
		},
		{
			name: "visa missing expiry",
			req: &models.ConfirmOrderRequest{
				PaymentMethod: models.Visa,
				CardNumber:    "4111111111111111",
				CardCVC:       "123",
			},
			wantErr: ErrIncompleteCardInfo,
		},
		{
			name: "visa missing cvc",
			req: &models.ConfirmOrderRequest{
				PaymentMethod: models.Visa,
				CardNumber:    "4111111111111111",
				CardExpiry:    "12/27",
			},
			wantErr: ErrIncompleteCardInfo,
		},
		{
			name:    "paypal with nothing",
			req:     &models.ConfirmOrderRequest{PaymentMethod: models.Paypal},
			wantErr: ErrIncompleteCardInfo,
		},
		{
			name: "malformed card number is accepted",
			req: &models.ConfirmOrderRequest{
				PaymentMethod: models.Mastercard,
				CardNumber:    "not-a-card",
				CardExpiry:    "yesterday",
				CardCVC:       "x",
			},
		},
		{
			name:    "no method selected",
			req:     &models.ConfirmOrderRequest{CardNumber: "1", CardExpiry: "1", CardCVC: "1"},
			wantErr: ErrUnknownPaymentMethod,
		},
		{
			name:    "unsupported method",
			req:     &models.ConfirmOrderRequest{PaymentMethod: "Bitcoin"},
			wantErr: ErrUnknownPaymentMethod,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConfirmOrderRequest(tt.req)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateConfirmOrderRequest() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateConfirmOrderRequest() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidationErrorListsMissingFields(t *testing.T) {
	err := ValidateConfirmOrderRequest(&models.ConfirmOrderRequest{PaymentMethod: models.Visa, CardNumber: "4111"})

	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if verr.Field != "card_expiry,card_cvc" {
		t.Errorf("Field = %q", verr.Field)
	}
}
