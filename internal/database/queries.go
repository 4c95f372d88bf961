package database

// Menu item queries (PostgreSQL)
const (
	InsertMenuItemSQL = `
		INSERT INTO menu_items (id, name, description, price, category, image)
		VALUES ($1, $2, $3, $4::numeric, $5, $6)`

	ListMenuItemsSQL = `
		SELECT id::text, name, description, price::text, category, image
		FROM menu_items
		ORDER BY created_at ASC, id ASC`

	CountMenuItemsSQL = `SELECT COUNT(*) FROM menu_items`
)

// Menu item queries (MySQL)
const (
	MySQLInsertMenuItemSQL = `
		INSERT INTO menu_items (id, name, description, price, category, image)
		VALUES (:id, :name, :description, :price, :category, :image)`

	MySQLListMenuItemsSQL = `
		SELECT id, name, description, price, category, image
		FROM menu_items
		ORDER BY created_at ASC, id ASC`

	MySQLCountMenuItemsSQL = `SELECT COUNT(*) FROM menu_items`
)
