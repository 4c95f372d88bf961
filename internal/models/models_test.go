package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMealDetails(t *testing.T) {
	tests := []struct {
		name      string
		category  string
		price     string
		wantErr   bool
		wantPrice decimal.Decimal
	}{
		{name: "valid", category: "Desserts", price: "65", wantPrice: decimal.NewFromInt(65)},
		{name: "decimal price", category: "Main Menu", price: "189.50", wantPrice: decimal.RequireFromString("189.5")},
		{name: "rounded to cents", category: "Desserts", price: "12.345", wantPrice: decimal.RequireFromString("12.35")},
		{name: "empty price is zero", category: "Starters", price: "", wantPrice: decimal.Zero},
		{name: "unknown category", category: "Drinks", price: "10", wantErr: true},
		{name: "non numeric price", category: "Starters", price: "R60", wantErr: true},
		{name: "negative price", category: "Starters", price: "-1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewMealDetails(tt.category, "Dish", "", tt.price, "")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.wantPrice.Equal(d.Price), "price %s", d.Price)
		})
	}
}

func TestNewMealDetails_AcceptsEmptyName(t *testing.T) {
	d, err := NewMealDetails("Starters", "", "", "0", "")
	require.NoError(t, err)
	assert.Equal(t, "", d.Name)
	assert.Equal(t, Starters, d.Category)
}

func TestDefaultMenuHasThreeDishesPerCategory(t *testing.T) {
	counts := map[Category]int{}
	for _, d := range DefaultMenu() {
		counts[d.Category]++
	}
	for _, c := range Categories {
		assert.Equal(t, 3, counts[c], string(c))
	}
}

func TestCartLineSubtotal(t *testing.T) {
	line := CartLine{ItemName: "Soup", Price: decimal.NewFromInt(60), Quantity: 3}
	assert.True(t, decimal.NewFromInt(180).Equal(line.Subtotal()))
}

func TestPaymentMethod(t *testing.T) {
	assert.True(t, Cash.Valid())
	assert.True(t, Paypal.Valid())
	assert.False(t, PaymentMethod("Bitcoin").Valid())
	assert.False(t, PaymentMethod("").Valid())

	assert.False(t, Cash.RequiresCard())
	assert.True(t, Visa.RequiresCard())
	assert.True(t, Mastercard.RequiresCard())
}
