package menu

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"golden-palette/internal/database"
	"golden-palette/internal/models"
)

// MySQLStore keeps menu items in MySQL through sqlx
type MySQLStore struct {
	db *sqlx.DB
}

func NewMySQLStore(db *sqlx.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

func (s *MySQLStore) SaveMeal(ctx context.Context, details models.MealDetails) (*models.MenuItem, error) {
	item := details.MenuItem(uuid.NewString())

	if _, err := s.db.NamedExecContext(ctx, database.MySQLInsertMenuItemSQL, item); err != nil {
		return nil, errors.Wrap(err, "failed to insert menu item")
	}
	return &item, nil
}

func (s *MySQLStore) ListItems(ctx context.Context) ([]models.MenuItem, error) {
	items := []models.MenuItem{}
	if err := s.db.SelectContext(ctx, &items, database.MySQLListMenuItemsSQL); err != nil {
		return nil, errors.Wrap(err, "failed to query menu items")
	}
	return items, nil
}

func (s *MySQLStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, database.MySQLCountMenuItemsSQL); err != nil {
		return 0, errors.Wrap(err, "failed to count menu items")
	}
	return n, nil
}
