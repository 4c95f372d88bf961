package menu

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"golden-palette/internal/database"
	"golden-palette/internal/models"
)

// PostgresStore keeps menu items in the menu_items table
type PostgresStore struct {
	db *database.DB
}

func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) SaveMeal(ctx context.Context, details models.MealDetails) (*models.MenuItem, error) {
	item := details.MenuItem(uuid.NewString())

	_, err := s.db.Exec(ctx, database.InsertMenuItemSQL,
		item.ID, item.Name, item.Description, item.Price.String(), string(item.Category), item.Image)
	if err != nil {
		return nil, errors.Wrap(err, "failed to insert menu item")
	}
	return &item, nil
}

func (s *PostgresStore) ListItems(ctx context.Context) ([]models.MenuItem, error) {
	rows, err := s.db.Query(ctx, database.ListMenuItemsSQL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query menu items")
	}
	defer rows.Close()

	items := []models.MenuItem{}
	for rows.Next() {
		var (
			item     models.MenuItem
			price    string
			category string
		)
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &price, &category, &item.Image); err != nil {
			return nil, errors.Wrap(err, "failed to scan menu item")
		}
		item.Price, err = decimal.NewFromString(price)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid price for menu item %s", item.ID)
		}
		item.Category = models.Category(category)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read menu items")
	}
	return items, nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRow(ctx, database.CountMenuItemsSQL).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "failed to count menu items")
	}
	return n, nil
}
