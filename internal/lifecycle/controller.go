package lifecycle

import (
	"context"
	"fmt"
	"sync"

	"restaurant-pos/internal/cart"
	"restaurant-pos/internal/logger"
	"restaurant-pos/internal/models"
)

// Status is the lifecycle state of the current order
type Status string

const (
	StatusDraft        Status = "draft"
	StatusTicketIssued Status = "ticket_issued"
)

// Result is the outcome of one lifecycle action. Reference carries the
// sink's identifier on success; Err is a *SinkFailure, ErrStaleSnapshot
// or nil. Snapshot is the cart state the action was dispatched with.
type Result struct {
	Action    Action
	Reference string
	Snapshot  models.CartSnapshot
	Err       error
}

// Pending is the handle for an in-flight lifecycle action. Done yields
// exactly one Result and is then closed.
type Pending struct {
	action Action
	done   chan Result
}

// Action returns the action this handle tracks
func (p *Pending) Action() Action {
	return p.action
}

// Done returns the completion channel
func (p *Pending) Done() <-chan Result {
	return p.done
}

// Flags are the independent side flags of the current order. They do
// not block edits or repeated invocation.
type Flags struct {
	Held    bool `json:"held"`
	Saved   bool `json:"saved"`
	Printed bool `json:"printed"`
}

// Controller drives an order through its lifecycle: ticket issuance,
// hold/save/print and payment against the Order Sink. Every dispatch
// captures an immutable snapshot tagged with the cart generation; a
// result resolving against a stale generation is discarded rather than
// applied. Distinct actions never block each other, and concurrent
// calls of the same action are each tracked independently.
type Controller struct {
	cart   *cart.Cart
	sink   Sink
	logger *logger.Logger

	mu       sync.Mutex
	status   Status
	flags    Flags
	inFlight map[Action]int
}

// NewController creates a controller for the given cart and sink
func NewController(c *cart.Cart, sink Sink, log *logger.Logger) *Controller {
	return &Controller{
		cart:     c,
		sink:     sink,
		logger:   log,
		status:   StatusDraft,
		inFlight: make(map[Action]int),
	}
}

// Status returns the current lifecycle status
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Flags returns the current hold/save/print side flags
func (c *Controller) Flags() Flags {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flags
}

// InFlight returns how many calls of the action are currently in flight
func (c *Controller) InFlight(action Action) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight[action]
}

// InFlightCounts returns the in-flight count for every action
func (c *Controller) InFlightCounts() map[Action]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	counts := make(map[Action]int, len(c.inFlight))
	for action, n := range c.inFlight {
		counts[action] = n
	}
	return counts
}

// Reset clears the cart and returns the order to an empty draft. Held,
// saved and printed flags drop with it. In-flight sink calls are not
// cancelled; their results will resolve against a stale generation and
// be discarded.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cart.Clear()
	c.status = StatusDraft
	c.flags = Flags{}
}

// IssueTicket dispatches kitchen ticket creation. It fails fast with a
// ValidationError, making no sink call, when the cart is empty or when a
// dine-in order has no table assigned. The cart stays editable after
// issuance.
func (c *Controller) IssueTicket(ctx context.Context) (*Pending, error) {
	c.mu.Lock()
	snapshot := c.cart.Snapshot()
	if len(snapshot.Lines) == 0 {
		c.mu.Unlock()
		return nil, ValidationError{Field: "lines", Message: "cannot issue a ticket for an empty cart"}
	}
	if snapshot.OrderType == models.DineIn && snapshot.Table == nil {
		c.mu.Unlock()
		return nil, ValidationError{Field: "table", Message: "a table is required for dine_in ticket issuance"}
	}
	pending := c.track(ActionCreateTicket)
	c.mu.Unlock()

	go c.dispatch(ctx, pending, snapshot,
		func(ctx context.Context) (string, error) {
			return c.sink.CreateTicket(ctx, snapshot)
		},
		func() {
			c.status = StatusTicketIssued
		})
	return pending, nil
}

// Hold dispatches a hold of the current order
func (c *Controller) Hold(ctx context.Context) (*Pending, error) {
	return c.sideAction(ctx, ActionHoldOrder, c.sink.HoldOrder, func() { c.flags.Held = true })
}

// Save dispatches a save of the current order
func (c *Controller) Save(ctx context.Context) (*Pending, error) {
	return c.sideAction(ctx, ActionSaveOrder, c.sink.SaveOrder, func() { c.flags.Saved = true })
}

// Print dispatches printing of the current order
func (c *Controller) Print(ctx context.Context) (*Pending, error) {
	return c.sideAction(ctx, ActionPrintOrder, c.sink.PrintOrder, func() { c.flags.Printed = true })
}

// sideAction implements hold/save/print: independently guarded by a
// non-empty cart, no ordering dependency between them or relative to
// ticket issuance.
func (c *Controller) sideAction(ctx context.Context, action Action,
	call func(context.Context, models.CartSnapshot) (string, error), apply func()) (*Pending, error) {

	c.mu.Lock()
	snapshot := c.cart.Snapshot()
	if len(snapshot.Lines) == 0 {
		c.mu.Unlock()
		return nil, ValidationError{Field: "lines", Message: fmt.Sprintf("cannot %s an empty cart", action)}
	}
	pending := c.track(action)
	c.mu.Unlock()

	go c.dispatch(ctx, pending, snapshot,
		func(ctx context.Context) (string, error) {
			return call(ctx, snapshot)
		},
		apply)
	return pending, nil
}

// ProcessPayment dispatches payment with the given method. On success
// the cart is cleared back to an empty draft; payment capture itself is
// the sink's concern.
func (c *Controller) ProcessPayment(ctx context.Context, method models.PaymentMethod) (*Pending, error) {
	if _, err := models.ParsePaymentMethod(string(method)); err != nil {
		return nil, ValidationError{Field: "method", Message: err.Error()}
	}

	c.mu.Lock()
	snapshot := c.cart.Snapshot()
	if len(snapshot.Lines) == 0 {
		c.mu.Unlock()
		return nil, ValidationError{Field: "lines", Message: "cannot process payment for an empty cart"}
	}
	pending := c.track(ActionProcessPayment)
	c.mu.Unlock()

	go c.dispatchPayment(ctx, pending, method, snapshot)
	return pending, nil
}

// track registers a new in-flight call. Callers hold c.mu.
func (c *Controller) track(action Action) *Pending {
	c.inFlight[action]++
	return &Pending{
		action: action,
		done:   make(chan Result, 1),
	}
}

// dispatch performs the sink call and applies its outcome. The call runs
// outside the controller lock; completion handling is serialized so the
// generation check and the state effect are atomic. A failed call leaves
// all state untouched; a stale result is discarded with a warning.
func (c *Controller) dispatch(ctx context.Context, pending *Pending, snapshot models.CartSnapshot,
	call func(context.Context) (string, error), apply func()) {

	reference, err := call(ctx)

	c.mu.Lock()
	c.inFlight[pending.action]--
	result := Result{
		Action:    pending.action,
		Reference: reference,
		Snapshot:  snapshot,
	}
	switch {
	case err != nil:
		result.Reference = ""
		result.Err = &SinkFailure{Action: pending.action, Err: err}
	case snapshot.Generation != c.cart.Generation():
		result.Reference = ""
		result.Err = ErrStaleSnapshot
		c.logWarnStale(pending.action, snapshot.Generation)
	default:
		apply()
	}
	c.mu.Unlock()

	pending.done <- result
	close(pending.done)
}

// dispatchPayment is dispatch specialized for payment: the success
// effect clears the cart, which must itself be fenced on the snapshot
// generation.
func (c *Controller) dispatchPayment(ctx context.Context, pending *Pending, method models.PaymentMethod, snapshot models.CartSnapshot) {
	reference, err := c.sink.ProcessPayment(ctx, method, snapshot)

	c.mu.Lock()
	c.inFlight[pending.action]--
	result := Result{
		Action:    pending.action,
		Reference: reference,
		Snapshot:  snapshot,
	}
	switch {
	case err != nil:
		result.Reference = ""
		result.Err = &SinkFailure{Action: pending.action, Err: err}
	case !c.cart.ClearIfGeneration(snapshot.Generation):
		result.Reference = ""
		result.Err = ErrStaleSnapshot
		c.logWarnStale(pending.action, snapshot.Generation)
	default:
		c.status = StatusDraft
		c.flags = Flags{}
	}
	c.mu.Unlock()

	pending.done <- result
	close(pending.done)
}

func (c *Controller) logWarnStale(action Action, generation uint64) {
	if c.logger == nil {
		return
	}
	c.logger.Warn("stale_result_discarded",
		fmt.Sprintf("Discarded %s result for a stale cart generation", action), "",
		map[string]interface{}{
			"sink_action":        string(action),
			"target_generation":  generation,
			"current_generation": c.cart.Generation(),
		})
}
