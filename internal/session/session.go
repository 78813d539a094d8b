package session

import (
	"time"

	"github.com/google/uuid"

	"restaurant-pos/internal/cart"
	"restaurant-pos/internal/customizer"
	"restaurant-pos/internal/lifecycle"
	"restaurant-pos/internal/logger"
	"restaurant-pos/internal/models"
	"restaurant-pos/internal/promo"
)

// Session is the owning context of exactly one cart. It is created
// empty, mutated by a single caller at a time, and torn down with the
// terminal session. Customization sessions and lifecycle dispatches all
// go through it.
type Session struct {
	ID          string
	CreatedAt   time.Time
	defaultSize models.Size

	cart       *cart.Cart
	controller *lifecycle.Controller
}

// Config carries the policy values a session needs
type Config struct {
	TaxRate     float64
	DefaultSize models.Size
	OrderType   models.OrderType
	Strategy    promo.Strategy
}

// New creates a session with an empty draft cart
func New(cfg Config, sink lifecycle.Sink, log *logger.Logger) *Session {
	c := cart.New(cfg.TaxRate, cfg.Strategy)
	if cfg.OrderType != "" {
		c.SetOrderType(cfg.OrderType)
	}
	return &Session{
		ID:          uuid.NewString(),
		CreatedAt:   time.Now().UTC(),
		defaultSize: cfg.DefaultSize,
		cart:        c,
		controller:  lifecycle.NewController(c, sink, log),
	}
}

// Cart returns the cart owned by this session
func (s *Session) Cart() *cart.Cart {
	return s.cart
}

// Controller returns the lifecycle controller for this session's cart
func (s *Session) Controller() *lifecycle.Controller {
	return s.controller
}

// Customize opens an add-mode customization session for a menu item,
// seeded with the configured default size.
func (s *Session) Customize(item models.MenuItem) *customizer.Session {
	return customizer.Open(item, s.defaultSize)
}

// CustomizeLine opens an edit-mode customization session for an
// existing cart line.
func (s *Session) CustomizeLine(lineID string) (*customizer.Session, error) {
	for _, line := range s.cart.Lines() {
		if line.ID == lineID {
			return customizer.OpenForEdit(line), nil
		}
	}
	return nil, cart.ErrLineNotFound
}

// CommitCustomization lands a finished customization in the cart: an
// add-mode session appends a new line, an edit-mode session replaces
// the existing one.
func (s *Session) CommitCustomization(cs *customizer.Session) (models.LineItem, error) {
	line := cs.Commit()
	if !cs.Editing() {
		if err := s.cart.AddLine(line); err != nil {
			return models.LineItem{}, err
		}
		return line, nil
	}

	quantity := line.Quantity
	size := line.Size
	addons := line.Addons
	notes := line.Notes
	err := s.cart.UpdateLine(line.ID, cart.LineUpdate{
		Quantity: &quantity,
		Size:     &size,
		Addons:   &addons,
		Notes:    &notes,
	})
	if err != nil {
		return models.LineItem{}, err
	}
	return line, nil
}
