package models

// Category represents a menu category
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

// MenuItem represents an item on the menu. Catalog data is read-only
// reference data; the cart never mutates it.
type MenuItem struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Category  string  `json:"category"`
	Image     string  `json:"image,omitempty"`
	Available bool    `json:"available"`
}

// Addon represents an optional extra with an incremental price
type Addon struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// TableStatus represents the occupancy state of a dining table
type TableStatus string

const (
	TableAvailable TableStatus = "available"
	TableOccupied  TableStatus = "occupied"
	TableReserved  TableStatus = "reserved"
)

// Table represents a dining table
type Table struct {
	ID       string      `json:"id"`
	Number   string      `json:"number"`
	Capacity int         `json:"capacity"`
	Status   TableStatus `json:"status"`
}

// IsAvailable reports whether the table can be assigned to a new order
func (t Table) IsAvailable() bool {
	return t.Status == TableAvailable
}
