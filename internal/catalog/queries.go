package catalog

// Catalog queries
const (
	GetCategoriesSQL = `
		SELECT id, name, icon
		FROM categories
		ORDER BY position ASC`

	GetMenuItemsSQL = `
		SELECT id, name, price, category, image, available
		FROM menu_items
		WHERE available = TRUE AND ($1 = '' OR $1 = 'all' OR category = $1)
		ORDER BY category, name`

	GetAddonsSQL = `
		SELECT id, name, price
		FROM addons
		ORDER BY name`

	GetTablesSQL = `
		SELECT id, number, capacity, status
		FROM tables
		ORDER BY id`
)
