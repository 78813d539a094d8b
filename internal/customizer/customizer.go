package customizer

import (
	"github.com/google/uuid"

	"restaurant-pos/internal/models"
)

// Session is a pending item customization: a base menu item plus the
// size, addon and quantity choices made so far. Nothing reaches the cart
// until Commit; a session abandoned halfway leaves no trace.
type Session struct {
	menuItem models.MenuItem
	lineID   string
	quantity int
	size     models.Size
	addons   []models.Addon
	notes    string
	editing  bool
}

// Open starts a customization session for a menu item in add mode:
// quantity 1, the configured default size, no addons.
func Open(item models.MenuItem, defaultSize models.Size) *Session {
	return &Session{
		menuItem: item,
		quantity: 1,
		size:     defaultSize,
	}
}

// OpenForEdit starts a customization session seeded from an existing
// line item. Committing keeps the line id so the cart row is replaced,
// not duplicated.
func OpenForEdit(existing models.LineItem) *Session {
	seed := existing.Clone()
	return &Session{
		menuItem: seed.MenuItem,
		lineID:   seed.ID,
		quantity: seed.Quantity,
		size:     seed.Size,
		addons:   seed.Addons,
		notes:    seed.Notes,
		editing:  true,
	}
}

// Editing reports whether the session edits an existing line
func (s *Session) Editing() bool {
	return s.editing
}

// LineID returns the id of the line being edited, or "" in add mode
func (s *Session) LineID() string {
	return s.lineID
}

// ToggleAddon adds the addon to the pending selection, or removes it if
// already selected. Toggling twice restores the previous state.
func (s *Session) ToggleAddon(addon models.Addon) {
	for i, selected := range s.addons {
		if selected.ID == addon.ID {
			s.addons = append(s.addons[:i], s.addons[i+1:]...)
			return
		}
	}
	s.addons = append(s.addons, addon)
}

// SetQuantity sets the pending quantity, clamped to a minimum of 1
func (s *Session) SetQuantity(quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	s.quantity = quantity
}

// Quantity returns the pending quantity
func (s *Session) Quantity() int {
	return s.quantity
}

// SetSize sets the pending size
func (s *Session) SetSize(size models.Size) {
	s.size = size
}

// Size returns the pending size
func (s *Session) Size() models.Size {
	return s.size
}

// SetNotes attaches free-text preparation notes
func (s *Session) SetNotes(notes string) {
	s.notes = notes
}

// Addons returns a copy of the pending addon selection
func (s *Session) Addons() []models.Addon {
	addons := make([]models.Addon, len(s.addons))
	copy(addons, s.addons)
	return addons
}

// PricePreview returns the live price of the pending configuration:
// (base price + selected addon prices) x quantity.
func (s *Session) PricePreview() float64 {
	price := s.menuItem.Price
	for _, addon := range s.addons {
		price += addon.Price
	}
	return price * float64(s.quantity)
}

// Commit materializes the pending configuration as an immutable line
// item. In add mode the line gets a fresh id; in edit mode it keeps the
// id of the line being edited. The returned value shares no state with
// the session, so the cart never observes a partially-updated line.
func (s *Session) Commit() models.LineItem {
	id := s.lineID
	if id == "" {
		id = uuid.NewString()
	}

	addons := make([]models.Addon, len(s.addons))
	copy(addons, s.addons)

	return models.LineItem{
		ID:       id,
		MenuItem: s.menuItem,
		Quantity: s.quantity,
		Size:     s.size,
		Addons:   addons,
		Notes:    s.notes,
	}
}
