package catalog

import (
	"context"

	"restaurant-pos/internal/models"
)

// StaticProvider serves catalog data from memory. It carries the same
// reference data as the seed migration and stands in when no database
// is available.
type StaticProvider struct {
	categories []models.Category
	menuItems  []models.MenuItem
	addons     []models.Addon
	tables     []models.Table
}

// NewStaticProvider creates a provider with the built-in seed data
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{
		categories: []models.Category{
			{ID: "all", Name: "All", Icon: "/img/menu/all.jpg"},
			{ID: "pizza", Name: "Pizza", Icon: "/img/menu/pizza.jpg"},
			{ID: "burger", Name: "Burger", Icon: "/img/menu/burger.jpg"},
			{ID: "pasta", Name: "Pasta", Icon: "/img/menu/pasta.jpg"},
			{ID: "beverages", Name: "Beverages", Icon: "/img/menu/beverage.jpg"},
			{ID: "desserts", Name: "Desserts", Icon: "/img/menu/dessert.jpg"},
		},
		menuItems: []models.MenuItem{
			{ID: "1", Name: "Margherita Pizza", Price: 22, Category: "pizza", Image: "/img/menu/pizza.jpg", Available: true},
			{ID: "2", Name: "Pepperoni Pizza", Price: 26, Category: "pizza", Image: "/img/menu/pizza.jpg", Available: true},
			{ID: "3", Name: "Veggie Supreme Pizza", Price: 24, Category: "pizza", Image: "/img/menu/pizza.jpg", Available: true},
			{ID: "4", Name: "BBQ Paneer Pizza", Price: 28, Category: "pizza", Image: "/img/menu/pizza.jpg", Available: true},
			{ID: "5", Name: "Veg Cheese Burger", Price: 15, Category: "burger", Image: "/img/menu/burger.jpg", Available: true},
			{ID: "6", Name: "Paneer Burger", Price: 17, Category: "burger", Image: "/img/menu/burger.jpg", Available: true},
			{ID: "7", Name: "Aloo Tikki Burger", Price: 14, Category: "burger", Image: "/img/menu/burger.jpg", Available: true},
			{ID: "8", Name: "Double Cheese Burger", Price: 19, Category: "burger", Image: "/img/menu/burger.jpg", Available: true},
			{ID: "9", Name: "White Sauce Pasta", Price: 20, Category: "pasta", Image: "/img/menu/pasta.jpg", Available: true},
			{ID: "10", Name: "Red Sauce Pasta", Price: 18, Category: "pasta", Image: "/img/menu/pasta.jpg", Available: true},
			{ID: "11", Name: "Mix Sauce Pasta", Price: 22, Category: "pasta", Image: "/img/menu/pasta.jpg", Available: true},
			{ID: "12", Name: "Cold Coffee", Price: 10, Category: "beverages", Image: "/img/menu/beverage.jpg", Available: true},
			{ID: "13", Name: "Fresh Lime Soda", Price: 8, Category: "beverages", Image: "/img/menu/beverage.jpg", Available: true},
			{ID: "14", Name: "Chocolate Milkshake", Price: 12, Category: "beverages", Image: "/img/menu/beverage.jpg", Available: true},
			{ID: "15", Name: "Iced Tea", Price: 9, Category: "beverages", Image: "/img/menu/beverage.jpg", Available: true},
			{ID: "16", Name: "Chocolate Brownie", Price: 14, Category: "desserts", Image: "/img/menu/dessert.jpg", Available: true},
			{ID: "17", Name: "Vanilla Ice Cream", Price: 10, Category: "desserts", Image: "/img/menu/dessert.jpg", Available: true},
			{ID: "18", Name: "Chocolate Lava Cake", Price: 16, Category: "desserts", Image: "/img/menu/dessert.jpg", Available: true},
		},
		addons: []models.Addon{
			{ID: "addon1", Name: "Extra Cheese", Price: 2},
			{ID: "addon2", Name: "Olives", Price: 1.5},
			{ID: "addon3", Name: "Mushrooms", Price: 2},
			{ID: "addon4", Name: "Pepperoni", Price: 3},
			{ID: "addon5", Name: "Bacon", Price: 3},
			{ID: "addon6", Name: "Jalapenos", Price: 1},
		},
		tables: []models.Table{
			{ID: "t1", Number: "Table 1", Capacity: 2, Status: models.TableAvailable},
			{ID: "t2", Number: "Table 2", Capacity: 4, Status: models.TableAvailable},
			{ID: "t3", Number: "Table 3", Capacity: 4, Status: models.TableOccupied},
			{ID: "t4", Number: "Table 4", Capacity: 6, Status: models.TableAvailable},
			{ID: "t5", Number: "Table 5", Capacity: 2, Status: models.TableReserved},
			{ID: "t6", Number: "Table 6", Capacity: 8, Status: models.TableAvailable},
			{ID: "t7", Number: "Table 7", Capacity: 4, Status: models.TableAvailable},
			{ID: "t8", Number: "Table 8", Capacity: 2, Status: models.TableAvailable},
			{ID: "t9", Number: "Table 9", Capacity: 4, Status: models.TableAvailable},
			{ID: "t10", Number: "Table 10", Capacity: 6, Status: models.TableAvailable},
		},
	}
}

// Categories returns all menu categories
func (p *StaticProvider) Categories(ctx context.Context) ([]models.Category, error) {
	out := make([]models.Category, len(p.categories))
	copy(out, p.categories)
	return out, nil
}

// MenuItems returns available menu items, filtered by category
func (p *StaticProvider) MenuItems(ctx context.Context, categoryID string) ([]models.MenuItem, error) {
	var items []models.MenuItem
	for _, item := range p.menuItems {
		if !item.Available {
			continue
		}
		if categoryID == "" || categoryID == CategoryAll || item.Category == categoryID {
			items = append(items, item)
		}
	}
	return items, nil
}

// Addons returns all addons
func (p *StaticProvider) Addons(ctx context.Context) ([]models.Addon, error) {
	out := make([]models.Addon, len(p.addons))
	copy(out, p.addons)
	return out, nil
}

// Tables returns all dining tables
func (p *StaticProvider) Tables(ctx context.Context) ([]models.Table, error) {
	out := make([]models.Table, len(p.tables))
	copy(out, p.tables)
	return out, nil
}
