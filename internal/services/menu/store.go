package menu

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"golden-palette/internal/models"
)

var ErrItemNotFound = errors.New("menu item not found")

// Store is the persistence collaborator behind the menu editor
type Store interface {
	ItemLister
	SaveMeal(ctx context.Context, details models.MealDetails) (*models.MenuItem, error)
	Count(ctx context.Context) (int, error)
}

// MemoryStore keeps menu items for the lifetime of the process
type MemoryStore struct {
	mu    sync.RWMutex
	items []models.MenuItem
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) SaveMeal(_ context.Context, details models.MealDetails) (*models.MenuItem, error) {
	item := details.MenuItem(uuid.NewString())

	s.mu.Lock()
	s.items = append(s.items, item)
	s.mu.Unlock()

	return &item, nil
}

func (s *MemoryStore) ListItems(_ context.Context) ([]models.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.MenuItem{}, s.items...), nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items), nil
}

// SeedDefaultMenu stores the opening dishes when the store is empty.
// It reports how many items were written.
func SeedDefaultMenu(ctx context.Context, store Store) (int, error) {
	n, err := store.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	seeded := 0
	for _, details := range models.DefaultMenu() {
		if _, err := store.SaveMeal(ctx, details); err != nil {
			return seeded, err
		}
		seeded++
	}
	return seeded, nil
}
