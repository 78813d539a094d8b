package terminal

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"restaurant-pos/internal/cart"
	"restaurant-pos/internal/catalog"
	"restaurant-pos/internal/config"
	"restaurant-pos/internal/lifecycle"
	"restaurant-pos/internal/logger"
	"restaurant-pos/internal/models"
	"restaurant-pos/internal/promo"
	"restaurant-pos/internal/session"
)

var (
	// ErrSessionNotFound is returned for an unknown session id
	ErrSessionNotFound = errors.New("session not found")
	// ErrMenuItemNotFound is returned for an unknown menu item id
	ErrMenuItemNotFound = errors.New("menu item not found")
	// ErrAddonNotFound is returned for an unknown addon id
	ErrAddonNotFound = errors.New("addon not found")
	// ErrTableNotFound is returned for an unknown table id
	ErrTableNotFound = errors.New("table not found")
)

// Service owns the active terminal sessions and routes every cart
// mutation and lifecycle dispatch through the session that owns the
// cart, preserving the single-writer model.
type Service struct {
	catalog  catalog.Provider
	sink     lifecycle.Sink
	strategy promo.Strategy
	pos      config.POSConfig
	logger   *logger.Logger

	mu       sync.RWMutex
	sessions map[string]*session.Session
}

// NewService creates a terminal service
func NewService(provider catalog.Provider, sink lifecycle.Sink, pos config.POSConfig, log *logger.Logger) *Service {
	return &Service{
		catalog:  provider,
		sink:     sink,
		strategy: promo.Default(),
		pos:      pos,
		logger:   log,
		sessions: make(map[string]*session.Session),
	}
}

// CreateSession opens a new session with an empty draft cart
func (s *Service) CreateSession(orderType models.OrderType) *session.Session {
	sess := session.New(session.Config{
		TaxRate:     s.pos.TaxRate,
		DefaultSize: models.Size(s.pos.DefaultSize),
		OrderType:   orderType,
		Strategy:    s.strategy,
	}, s.sink, s.logger)

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Session looks up an active session
func (s *Service) Session(id string) (*session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// CloseSession tears a session down
func (s *Service) CloseSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// AddLineInput carries a customization for a new cart line
type AddLineInput struct {
	MenuItemID string
	Quantity   int
	Size       string
	AddonIDs   []string
	Notes      string
}

// AddLine customizes a menu item and appends it to the session's cart
func (s *Service) AddLine(ctx context.Context, sessionID string, input AddLineInput) (models.LineItem, error) {
	sess, err := s.Session(sessionID)
	if err != nil {
		return models.LineItem{}, err
	}

	item, err := s.menuItem(ctx, input.MenuItemID)
	if err != nil {
		return models.LineItem{}, err
	}
	addons, err := s.addons(ctx, input.AddonIDs)
	if err != nil {
		return models.LineItem{}, err
	}

	cs := sess.Customize(item)
	if input.Size != "" {
		size, err := models.ParseSize(input.Size)
		if err != nil {
			return models.LineItem{}, lifecycle.ValidationError{Field: "size", Message: err.Error()}
		}
		cs.SetSize(size)
	}
	if input.Quantity > 0 {
		cs.SetQuantity(input.Quantity)
	}
	for _, addon := range addons {
		cs.ToggleAddon(addon)
	}
	cs.SetNotes(input.Notes)

	return sess.CommitCustomization(cs)
}

// UpdateLineInput carries a partial update for an existing line
type UpdateLineInput struct {
	Quantity *int
	Size     *string
	AddonIDs *[]string
	Notes    *string
}

// UpdateLine applies a partial update to an existing cart line
func (s *Service) UpdateLine(ctx context.Context, sessionID, lineID string, input UpdateLineInput) error {
	sess, err := s.Session(sessionID)
	if err != nil {
		return err
	}

	update := cart.LineUpdate{
		Quantity: input.Quantity,
		Notes:    input.Notes,
	}
	if input.Size != nil {
		size, err := models.ParseSize(*input.Size)
		if err != nil {
			return lifecycle.ValidationError{Field: "size", Message: err.Error()}
		}
		update.Size = &size
	}
	if input.AddonIDs != nil {
		addons, err := s.addons(ctx, *input.AddonIDs)
		if err != nil {
			return err
		}
		update.Addons = &addons
	}

	return sess.Cart().UpdateLine(lineID, update)
}

// RemoveLine removes a line from the session's cart
func (s *Service) RemoveLine(sessionID, lineID string) error {
	sess, err := s.Session(sessionID)
	if err != nil {
		return err
	}
	return sess.Cart().RemoveLine(lineID)
}

// RemoveAddon strips a single addon from a cart line
func (s *Service) RemoveAddon(sessionID, lineID, addonID string) error {
	sess, err := s.Session(sessionID)
	if err != nil {
		return err
	}
	return sess.Cart().RemoveAddonFromLine(lineID, addonID)
}

// SetOrderType switches the order type of the session's cart
func (s *Service) SetOrderType(sessionID string, orderType models.OrderType) error {
	sess, err := s.Session(sessionID)
	if err != nil {
		return err
	}
	sess.Cart().SetOrderType(orderType)
	return nil
}

// SetTable assigns a dining table to the session's cart. Only tables
// currently marked available can be assigned.
func (s *Service) SetTable(ctx context.Context, sessionID, tableID string) error {
	sess, err := s.Session(sessionID)
	if err != nil {
		return err
	}

	tables, err := s.catalog.Tables(ctx)
	if err != nil {
		return fmt.Errorf("failed to load tables: %w", err)
	}
	for _, table := range tables {
		if table.ID == tableID {
			if !table.IsAvailable() {
				return lifecycle.ValidationError{
					Field:   "table",
					Message: fmt.Sprintf("table %s is %s", table.Number, table.Status),
				}
			}
			sess.Cart().SetTable(table)
			return nil
		}
	}
	return ErrTableNotFound
}

// ClearTable detaches the table from the session's cart
func (s *Service) ClearTable(sessionID string) error {
	sess, err := s.Session(sessionID)
	if err != nil {
		return err
	}
	sess.Cart().ClearTable()
	return nil
}

// ClearCart empties the session's cart back to a draft
func (s *Service) ClearCart(sessionID string) error {
	sess, err := s.Session(sessionID)
	if err != nil {
		return err
	}
	sess.Controller().Reset()
	return nil
}

// Dispatch runs one lifecycle action for the session. It consults the
// action's in-flight flag first and rejects a duplicate submission of
// the same kind while one is already in flight.
func (s *Service) Dispatch(ctx context.Context, sessionID string, action lifecycle.Action, method models.PaymentMethod) (*lifecycle.Pending, error) {
	sess, err := s.Session(sessionID)
	if err != nil {
		return nil, err
	}

	controller := sess.Controller()
	if controller.InFlight(action) > 0 {
		return nil, lifecycle.ErrActionInFlight
	}

	switch action {
	case lifecycle.ActionCreateTicket:
		return controller.IssueTicket(ctx)
	case lifecycle.ActionHoldOrder:
		return controller.Hold(ctx)
	case lifecycle.ActionSaveOrder:
		return controller.Save(ctx)
	case lifecycle.ActionPrintOrder:
		return controller.Print(ctx)
	case lifecycle.ActionProcessPayment:
		return controller.ProcessPayment(ctx, method)
	default:
		return nil, fmt.Errorf("unknown lifecycle action: %s", action)
	}
}

func (s *Service) menuItem(ctx context.Context, id string) (models.MenuItem, error) {
	items, err := s.catalog.MenuItems(ctx, catalog.CategoryAll)
	if err != nil {
		return models.MenuItem{}, fmt.Errorf("failed to load menu items: %w", err)
	}
	for _, item := range items {
		if item.ID == id {
			return item, nil
		}
	}
	return models.MenuItem{}, ErrMenuItemNotFound
}

func (s *Service) addons(ctx context.Context, ids []string) ([]models.Addon, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	available, err := s.catalog.Addons(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load addons: %w", err)
	}
	byID := make(map[string]models.Addon, len(available))
	for _, addon := range available {
		byID[addon.ID] = addon
	}

	addons := make([]models.Addon, 0, len(ids))
	for _, id := range ids {
		addon, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrAddonNotFound, id)
		}
		addons = append(addons, addon)
	}
	return addons, nil
}
