package catalog

import (
	"context"
	"fmt"

	"restaurant-pos/internal/database"
	"restaurant-pos/internal/models"
)

// PostgresProvider reads catalog reference data from PostgreSQL
type PostgresProvider struct {
	db *database.DB
}

// NewPostgresProvider creates a Postgres-backed catalog provider
func NewPostgresProvider(db *database.DB) *PostgresProvider {
	return &PostgresProvider{db: db}
}

// Categories returns all menu categories
func (p *PostgresProvider) Categories(ctx context.Context) ([]models.Category, error) {
	rows, err := p.db.Query(ctx, GetCategoriesSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Icon); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// MenuItems returns available menu items, filtered by category
func (p *PostgresProvider) MenuItems(ctx context.Context, categoryID string) ([]models.MenuItem, error) {
	rows, err := p.db.Query(ctx, GetMenuItemsSQL, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		var item models.MenuItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.Category, &item.Image, &item.Available); err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Addons returns all addons
func (p *PostgresProvider) Addons(ctx context.Context) ([]models.Addon, error) {
	rows, err := p.db.Query(ctx, GetAddonsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query addons: %w", err)
	}
	defer rows.Close()

	var addons []models.Addon
	for rows.Next() {
		var addon models.Addon
		if err := rows.Scan(&addon.ID, &addon.Name, &addon.Price); err != nil {
			return nil, fmt.Errorf("failed to scan addon: %w", err)
		}
		addons = append(addons, addon)
	}
	return addons, rows.Err()
}

// Tables returns all dining tables
func (p *PostgresProvider) Tables(ctx context.Context) ([]models.Table, error) {
	rows, err := p.db.Query(ctx, GetTablesSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	var tables []models.Table
	for rows.Next() {
		var table models.Table
		var status string
		if err := rows.Scan(&table.ID, &table.Number, &table.Capacity, &status); err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		table.Status = models.TableStatus(status)
		tables = append(tables, table)
	}
	return tables, rows.Err()
}
