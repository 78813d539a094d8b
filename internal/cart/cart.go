package cart

import (
	"errors"
	"fmt"
	"sync"

	"restaurant-pos/internal/models"
	"restaurant-pos/internal/promo"
)

// ErrLineNotFound is returned when a line id does not exist in the cart
var ErrLineNotFound = errors.New("line item not found")

// Cart owns the ordered list of line items for one order and derives all
// aggregate amounts from it. Line order is receipt order. The cart is
// mutated by a single owning session; the internal mutex only protects
// against the lifecycle controller applying a payment result while the
// session reads.
type Cart struct {
	mu         sync.Mutex
	lines      []models.LineItem
	orderType  models.OrderType
	table      *models.Table
	taxRate    float64
	strategy   promo.Strategy
	generation uint64
}

// LineUpdate is a partial update for an existing line item. Nil fields
// are left unchanged.
type LineUpdate struct {
	Quantity *int
	Size     *models.Size
	Addons   *[]models.Addon
	Notes    *string
}

// New creates an empty cart with the given tax rate and promotion
// strategy. A nil strategy disables promotions.
func New(taxRate float64, strategy promo.Strategy) *Cart {
	if strategy == nil {
		strategy = promo.None()
	}
	return &Cart{
		orderType: models.DineIn,
		taxRate:   taxRate,
		strategy:  strategy,
	}
}

// AddLine appends a line item to the end of the cart. Identical
// configurations are not merged; every add is a new row.
func (c *Cart) AddLine(line models.LineItem) error {
	if err := line.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, existing := range c.lines {
		if existing.ID == line.ID {
			return fmt.Errorf("line item %s already in cart", line.ID)
		}
	}
	c.lines = append(c.lines, line.Clone())
	return nil
}

// UpdateLine applies a partial update to an existing line. An update
// that brings the quantity to zero or below removes the line instead of
// leaving a zero-quantity row.
func (c *Cart) UpdateLine(id string, update LineUpdate) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(id)
	if idx < 0 {
		return ErrLineNotFound
	}

	line := c.lines[idx].Clone()
	if update.Quantity != nil {
		if *update.Quantity <= 0 {
			c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
			return nil
		}
		line.Quantity = *update.Quantity
	}
	if update.Size != nil {
		line.Size = *update.Size
	}
	if update.Addons != nil {
		addons := make([]models.Addon, len(*update.Addons))
		copy(addons, *update.Addons)
		line.Addons = addons
	}
	if update.Notes != nil {
		line.Notes = *update.Notes
	}

	if err := line.Validate(); err != nil {
		return err
	}
	c.lines[idx] = line
	return nil
}

// RemoveLine removes a line item from the cart
func (c *Cart) RemoveLine(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(id)
	if idx < 0 {
		return ErrLineNotFound
	}
	c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
	return nil
}

// RemoveAddonFromLine strips a single addon from a line without
// reopening the customizer. Removing an addon the line does not carry is
// a no-op.
func (c *Cart) RemoveAddonFromLine(lineID, addonID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(lineID)
	if idx < 0 {
		return ErrLineNotFound
	}

	line := c.lines[idx]
	addons := line.Addons[:0:0]
	for _, addon := range line.Addons {
		if addon.ID != addonID {
			addons = append(addons, addon)
		}
	}
	c.lines[idx].Addons = addons
	return nil
}

// Clear empties the cart, detaches the table and starts a new cart
// generation, invalidating results of lifecycle calls still in flight.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked()
}

func (c *Cart) clearLocked() {
	c.lines = nil
	c.table = nil
	c.generation++
}

// ClearIfGeneration clears the cart only when it is still on the given
// generation. It reports whether the clear was applied. The lifecycle
// controller uses this to drop payment confirmations that resolve after
// the cart was already reset.
func (c *Cart) ClearIfGeneration(generation uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation != generation {
		return false
	}
	c.clearLocked()
	return true
}

// SetOrderType switches the order type. Switching to dine_in without a
// table leaves the cart in an incomplete-but-valid state; only ticket
// issuance enforces table assignment.
func (c *Cart) SetOrderType(orderType models.OrderType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.orderType = orderType
}

// SetTable assigns a dining table
func (c *Cart) SetTable(table models.Table) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.table = &table
}

// ClearTable detaches the table
func (c *Cart) ClearTable() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.table = nil
}

// OrderType returns the current order type
func (c *Cart) OrderType() models.OrderType {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.orderType
}

// Table returns a copy of the assigned table, or nil
func (c *Cart) Table() *models.Table {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.table == nil {
		return nil
	}
	table := *c.table
	return &table
}

// Len returns the number of line items
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// Lines returns a deep copy of the line items in receipt order
func (c *Cart) Lines() []models.LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cloneLinesLocked()
}

// Generation returns the current cart generation
func (c *Cart) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// Promotions evaluates the promotion strategy against the current lines
func (c *Cart) Promotions() []models.PromotionAnnotation {
	c.mu.Lock()
	lines := c.cloneLinesLocked()
	c.mu.Unlock()
	return c.strategy.Evaluate(lines)
}

// Totals recomputes the aggregates from the current line items. Nothing
// is cached: subtotal, tax and total are always derived.
func (c *Cart) Totals() models.Totals {
	c.mu.Lock()
	lines := c.cloneLinesLocked()
	c.mu.Unlock()
	return c.totalsFor(lines)
}

func (c *Cart) totalsFor(lines []models.LineItem) models.Totals {
	var subtotal float64
	for _, line := range lines {
		subtotal += line.LineTotal()
	}

	var discount float64
	for _, annotation := range c.strategy.Evaluate(lines) {
		discount += annotation.DiscountAmount
	}

	tax := subtotal * c.taxRate
	return models.Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Discount: discount,
		Total:    subtotal + tax - discount,
	}
}

// Snapshot captures an immutable copy of the full cart state, tagged
// with the current generation.
func (c *Cart) Snapshot() models.CartSnapshot {
	c.mu.Lock()
	lines := c.cloneLinesLocked()
	orderType := c.orderType
	var table *models.Table
	if c.table != nil {
		t := *c.table
		table = &t
	}
	generation := c.generation
	c.mu.Unlock()

	return models.CartSnapshot{
		Lines:      lines,
		OrderType:  orderType,
		Table:      table,
		Promotions: c.strategy.Evaluate(lines),
		Totals:     c.totalsFor(lines),
		Generation: generation,
	}
}

func (c *Cart) cloneLinesLocked() []models.LineItem {
	lines := make([]models.LineItem, len(c.lines))
	for i, line := range c.lines {
		lines[i] = line.Clone()
	}
	return lines
}

func (c *Cart) indexOf(id string) int {
	for i, line := range c.lines {
		if line.ID == id {
			return i
		}
	}
	return -1
}
