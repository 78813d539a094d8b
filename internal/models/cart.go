package models

import "fmt"

// OrderType represents the type of an order
type OrderType string

const (
	DineIn   OrderType = "dine_in"
	Takeaway OrderType = "takeaway"
	Delivery OrderType = "delivery"
)

// ParseOrderType validates a raw order type string
func ParseOrderType(s string) (OrderType, error) {
	switch OrderType(s) {
	case DineIn, Takeaway, Delivery:
		return OrderType(s), nil
	default:
		return "", fmt.Errorf("order_type must be one of: dine_in, takeaway, delivery")
	}
}

// Size represents a portion size
type Size string

const (
	SizeSmall  Size = "Small"
	SizeMedium Size = "Medium"
	SizeLarge  Size = "Large"
)

// ParseSize validates a raw size string
func ParseSize(s string) (Size, error) {
	switch Size(s) {
	case SizeSmall, SizeMedium, SizeLarge:
		return Size(s), nil
	default:
		return "", fmt.Errorf("size must be one of: Small, Medium, Large")
	}
}

// LineItem is one configured entry in the cart: a menu item with size,
// addons and quantity. Its ID is cart-local; adding the same menu item
// twice produces two rows with distinct ids.
type LineItem struct {
	ID       string   `json:"id"`
	MenuItem MenuItem `json:"menu_item"`
	Quantity int      `json:"quantity"`
	Size     Size     `json:"size"`
	Addons   []Addon  `json:"addons"`
	Notes    string   `json:"notes,omitempty"`
}

// UnitPrice returns the per-unit price: base price plus all addon prices
func (li LineItem) UnitPrice() float64 {
	price := li.MenuItem.Price
	for _, addon := range li.Addons {
		price += addon.Price
	}
	return price
}

// LineTotal returns the line price: (base + addons) x quantity
func (li LineItem) LineTotal() float64 {
	return li.UnitPrice() * float64(li.Quantity)
}

// HasAddon reports whether the line already carries the addon
func (li LineItem) HasAddon(addonID string) bool {
	for _, addon := range li.Addons {
		if addon.ID == addonID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the line item
func (li LineItem) Clone() LineItem {
	clone := li
	clone.Addons = make([]Addon, len(li.Addons))
	copy(clone.Addons, li.Addons)
	return clone
}

// Validate checks the line item invariants
func (li LineItem) Validate() error {
	if li.ID == "" {
		return fmt.Errorf("line item id is required")
	}
	if li.MenuItem.ID == "" {
		return fmt.Errorf("line item must reference a menu item")
	}
	if li.Quantity < 1 {
		return fmt.Errorf("quantity must be at least 1")
	}
	if _, err := ParseSize(string(li.Size)); err != nil {
		return err
	}
	seen := make(map[string]bool, len(li.Addons))
	for _, addon := range li.Addons {
		if seen[addon.ID] {
			return fmt.Errorf("duplicate addon %s on line item", addon.ID)
		}
		seen[addon.ID] = true
	}
	return nil
}

// PromotionAnnotation is a promotional label with an optional discount
type PromotionAnnotation struct {
	Label          string  `json:"label"`
	DiscountAmount float64 `json:"discount_amount"`
}

// Totals holds the derived aggregate amounts of a cart
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

// CartSnapshot is an immutable copy of cart state captured at the moment
// a lifecycle action is dispatched. Generation identifies the cart
// incarnation the snapshot was taken from.
type CartSnapshot struct {
	Lines      []LineItem            `json:"lines"`
	OrderType  OrderType             `json:"order_type"`
	Table      *Table                `json:"table,omitempty"`
	Promotions []PromotionAnnotation `json:"promotions"`
	Totals     Totals                `json:"totals"`
	Generation uint64                `json:"generation"`
}
