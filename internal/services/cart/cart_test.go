package cart

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golden-palette/internal/models"
)

func rands(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func TestAddItem_MergesRepeatedName(t *testing.T) {
	c := New()

	require.NoError(t, c.AddItem("Soup", rands(60), models.Starters, 2, "soup.jpg"))
	require.NoError(t, c.AddItem("Soup", rands(60), models.Starters, 1, "soup.jpg"))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "Soup", lines[0].ItemName)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.True(t, rands(60).Equal(lines[0].Price))
	assert.True(t, rands(180).Equal(c.Total()))
}

func TestAddItem_FirstWriteWinsForMetadata(t *testing.T) {
	c := New()

	require.NoError(t, c.AddItem("Fondant", rands(75), models.Desserts, 1, "a.jpg"))
	require.NoError(t, c.AddItem("Fondant", rands(99), models.Starters, 1, "b.jpg"))

	line := c.Lines()[0]
	assert.True(t, rands(75).Equal(line.Price))
	assert.Equal(t, models.Desserts, line.Section)
	assert.Equal(t, "a.jpg", line.Image)
	assert.Equal(t, 2, line.Quantity)
}

func TestAddItem_PreservesInsertionOrder(t *testing.T) {
	c := New()
	for _, name := range []string{"Branzino", "Soup", "Fondant", "Soup", "Branzino"} {
		require.NoError(t, c.AddItem(name, rands(10), models.MainMenu, 1, ""))
	}

	var names []string
	for _, l := range c.Lines() {
		names = append(names, l.ItemName)
	}
	assert.Equal(t, []string{"Branzino", "Soup", "Fondant"}, names)
}

func TestAddItem_RejectsNonPositiveQuantity(t *testing.T) {
	c := New()
	assert.ErrorIs(t, c.AddItem("Soup", rands(60), models.Starters, 0, ""), ErrInvalidQuantity)
	assert.ErrorIs(t, c.AddItem("Soup", rands(60), models.Starters, -2, ""), ErrInvalidQuantity)
	assert.True(t, c.IsEmpty())
}

func TestMergeInvariantAndTotal_RandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	names := []string{"Soup", "Kofta", "Couscous", "Pudding", "Cheesecake"}
	prices := map[string]decimal.Decimal{
		"Soup": rands(60), "Kofta": rands(240), "Couscous": decimal.RequireFromString("190.50"),
		"Pudding": rands(60), "Cheesecake": rands(65),
	}

	for round := 0; round < 50; round++ {
		c := New()
		want := map[string]int{}
		for i := 0; i < 30; i++ {
			name := names[rng.Intn(len(names))]
			qty := rng.Intn(10) + 1
			require.NoError(t, c.AddItem(name, prices[name], models.Starters, qty, ""))
			want[name] += qty
		}

		lines := c.Lines()
		require.Len(t, lines, len(want))

		expectedTotal := decimal.Zero
		expectedCount := 0
		for _, l := range lines {
			assert.Equal(t, want[l.ItemName], l.Quantity)
			expectedTotal = expectedTotal.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
			expectedCount += l.Quantity
		}
		assert.True(t, expectedTotal.Equal(c.Total()))
		assert.Equal(t, expectedCount, c.ItemCount())
	}
}

func TestItemCountFollowsMergedQuantities(t *testing.T) {
	c := New()
	require.NoError(t, c.AddItem("Soup", rands(60), models.Starters, 2, ""))
	require.NoError(t, c.AddItem("Soup", rands(60), models.Starters, 4, ""))
	require.NoError(t, c.AddItem("Fondant", rands(75), models.Desserts, 1, ""))

	assert.Equal(t, 7, c.ItemCount())
	assert.Equal(t, 2, c.Len())
}

func TestLinesReturnsCopy(t *testing.T) {
	c := New()
	require.NoError(t, c.AddItem("Soup", rands(60), models.Starters, 1, ""))

	lines := c.Lines()
	lines[0].Quantity = 100

	assert.Equal(t, 1, c.Lines()[0].Quantity)
	assert.True(t, rands(60).Equal(c.Total()))
}

func TestSummaryOfEmptyCart(t *testing.T) {
	s := New().Summary()
	assert.Empty(t, s.Lines)
	assert.True(t, s.Total.IsZero())
	assert.Zero(t, s.ItemCount)
}
