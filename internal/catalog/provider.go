package catalog

import (
	"context"

	"restaurant-pos/internal/models"
)

// CategoryAll is the pseudo-category that matches every menu item
const CategoryAll = "all"

// Provider supplies the read-only reference data the POS engine
// composes orders from: categories, menu items, addons and tables.
type Provider interface {
	// Categories returns all menu categories.
	Categories(ctx context.Context) ([]models.Category, error)

	// MenuItems returns available menu items, filtered by category.
	// An empty category or CategoryAll returns everything.
	MenuItems(ctx context.Context, categoryID string) ([]models.MenuItem, error)

	// Addons returns all addons.
	Addons(ctx context.Context) ([]models.Addon, error)

	// Tables returns all dining tables with their current status.
	Tables(ctx context.Context) ([]models.Table, error)
}
