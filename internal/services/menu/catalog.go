package menu

import (
	"context"
	"sync"
	"time"

	"golden-palette/internal/models"
)

// Sections is the menu split into its three categories
type Sections struct {
	Starters []models.MenuItem `json:"starters"`
	Mains    []models.MenuItem `json:"mains"`
	Desserts []models.MenuItem `json:"desserts"`
}

// Partition filters items by category, keeping input order within each group.
// Items outside the three categories are left out.
func Partition(items []models.MenuItem) Sections {
	s := Sections{
		Starters: []models.MenuItem{},
		Mains:    []models.MenuItem{},
		Desserts: []models.MenuItem{},
	}
	for _, item := range items {
		switch item.Category {
		case models.Starters:
			s.Starters = append(s.Starters, item)
		case models.MainMenu:
			s.Mains = append(s.Mains, item)
		case models.Desserts:
			s.Desserts = append(s.Desserts, item)
		}
	}
	return s
}

// ItemLister is the read side of a menu store
type ItemLister interface {
	ListItems(ctx context.Context) ([]models.MenuItem, error)
}

// Catalog holds the customer-facing menu. The partition is recomputed every
// time the item collection is replaced.
type Catalog struct {
	mu       sync.RWMutex
	items    []models.MenuItem
	sections Sections
}

func NewCatalog(items []models.MenuItem) *Catalog {
	c := &Catalog{}
	c.Replace(items)
	return c
}

func (c *Catalog) Replace(items []models.MenuItem) {
	copied := append([]models.MenuItem(nil), items...)
	sections := Partition(copied)

	c.mu.Lock()
	c.items = copied
	c.sections = sections
	c.mu.Unlock()
}

// Reload re-reads the full item list from store
func (c *Catalog) Reload(ctx context.Context, store ItemLister) error {
	items, err := store.ListItems(ctx)
	if err != nil {
		return err
	}
	c.Replace(items)
	return nil
}

func (c *Catalog) Sections() Sections {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Sections{
		Starters: append([]models.MenuItem{}, c.sections.Starters...),
		Mains:    append([]models.MenuItem{}, c.sections.Mains...),
		Desserts: append([]models.MenuItem{}, c.sections.Desserts...),
	}
}

func (c *Catalog) Items() []models.MenuItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.MenuItem{}, c.items...)
}

// Find returns the first item with the given name
func (c *Catalog) Find(name string) (models.MenuItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, item := range c.items {
		if item.Name == name {
			return item, true
		}
	}
	return models.MenuItem{}, false
}

// RunReloader reloads the catalog from store every interval until ctx is
// done. Failed reloads are passed to onErr and keep the previous menu.
func (c *Catalog) RunReloader(ctx context.Context, store ItemLister, interval time.Duration, onErr func(error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.Reload(ctx, store); err != nil && onErr != nil && ctx.Err() == nil {
				onErr(err)
			}
		}
	}
}
