package menu

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golden-palette/internal/models"
)

func TestMemoryStoreSaveAndList(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	saved, err := store.SaveMeal(ctx, models.MealDetails{
		Category: models.Desserts,
		Name:     "Tart",
		Price:    decimal.RequireFromString("45.50"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "Tart", saved.Name)

	items, err := store.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, saved.ID, items[0].ID)
	assert.True(t, items[0].Price.Equal(decimal.RequireFromString("45.5")))

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSeedDefaultMenu(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	n, err := SeedDefaultMenu(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, len(models.DefaultMenu()), n)

	n, err = SeedDefaultMenu(ctx, store)
	require.NoError(t, err)
	assert.Zero(t, n, "seeding a non-empty store is a no-op")

	items, err := store.ListItems(ctx)
	require.NoError(t, err)
	s := Partition(items)
	assert.Len(t, s.Starters, 3)
	assert.Len(t, s.Mains, 3)
	assert.Len(t, s.Desserts, 3)
}
