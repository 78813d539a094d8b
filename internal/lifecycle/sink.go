package lifecycle

import (
	"context"
	"fmt"
	"math/rand/v2"

	"restaurant-pos/internal/logger"
	"restaurant-pos/internal/models"
)

// Action identifies one lifecycle operation against the Order Sink
type Action string

const (
	ActionCreateTicket   Action = "create_ticket"
	ActionHoldOrder      Action = "hold_order"
	ActionSaveOrder      Action = "save_order"
	ActionPrintOrder     Action = "print_order"
	ActionProcessPayment Action = "process_payment"
)

// Actions lists every lifecycle action
func Actions() []Action {
	return []Action{
		ActionCreateTicket,
		ActionHoldOrder,
		ActionSaveOrder,
		ActionPrintOrder,
		ActionProcessPayment,
	}
}

// Sink abstracts all side-effecting order operations: kitchen ticket
// creation, hold, save, print and payment. Every call is fallible and
// receives an immutable cart snapshot. The returned reference identifies
// the created artifact (KOT id, hold id, transaction id).
type Sink interface {
	CreateTicket(ctx context.Context, snapshot models.CartSnapshot) (string, error)
	HoldOrder(ctx context.Context, snapshot models.CartSnapshot) (string, error)
	SaveOrder(ctx context.Context, snapshot models.CartSnapshot) (string, error)
	PrintOrder(ctx context.Context, snapshot models.CartSnapshot) (string, error)
	ProcessPayment(ctx context.Context, method models.PaymentMethod, snapshot models.CartSnapshot) (string, error)
}

// LoggingSink is a Sink that only logs each action and fabricates
// references. It stands in when RabbitMQ is unavailable so the engine
// still runs end to end.
type LoggingSink struct {
	Logger *logger.Logger
}

func (s *LoggingSink) CreateTicket(ctx context.Context, snapshot models.CartSnapshot) (string, error) {
	return s.accept("create_ticket", "KOT", snapshot)
}

func (s *LoggingSink) HoldOrder(ctx context.Context, snapshot models.CartSnapshot) (string, error) {
	return s.accept("hold_order", "HOLD", snapshot)
}

func (s *LoggingSink) SaveOrder(ctx context.Context, snapshot models.CartSnapshot) (string, error) {
	return s.accept("save_order", "ORD", snapshot)
}

func (s *LoggingSink) PrintOrder(ctx context.Context, snapshot models.CartSnapshot) (string, error) {
	return s.accept("print_order", "PRN", snapshot)
}

func (s *LoggingSink) ProcessPayment(ctx context.Context, method models.PaymentMethod, snapshot models.CartSnapshot) (string, error) {
	return s.accept("process_payment", "TXN", snapshot)
}

func (s *LoggingSink) accept(action, prefix string, snapshot models.CartSnapshot) (string, error) {
	reference := fmt.Sprintf("%s-%04d", prefix, rand.IntN(10000))
	if s.Logger != nil {
		s.Logger.Info("sink_accepted", fmt.Sprintf("Accepted %s", action), "", map[string]interface{}{
			"sink_action": action,
			"reference":   reference,
			"lines":       len(snapshot.Lines),
			"total":       snapshot.Totals.Total,
		})
	}
	return reference, nil
}
