package messaging

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"restaurant-pos/internal/models"
)

// ActionMessage is the envelope published for every lifecycle action
type ActionMessage struct {
	Action    string               `json:"action"`
	Reference string               `json:"reference"`
	Method    models.PaymentMethod `json:"payment_method,omitempty"`
	Cart      models.CartSnapshot  `json:"cart"`
	Timestamp time.Time            `json:"timestamp"`
}

// RabbitSink implements the Order Sink over RabbitMQ: every lifecycle
// action becomes a persistent message on the pos_events exchange. The
// returned reference identifies the published artifact; consumers
// (kitchen display, receipt printer, settlement) are outside this
// service.
type RabbitSink struct {
	publisher *Publisher
}

// NewRabbitSink creates a RabbitMQ-backed Order Sink
func NewRabbitSink(publisher *Publisher) *RabbitSink {
	return &RabbitSink{publisher: publisher}
}

// CreateTicket publishes a kitchen order ticket
func (s *RabbitSink) CreateTicket(ctx context.Context, snapshot models.CartSnapshot) (string, error) {
	return s.publish(ctx, "pos.ticket", "create_ticket", "KOT", "", snapshot)
}

// HoldOrder publishes a hold of the current order
func (s *RabbitSink) HoldOrder(ctx context.Context, snapshot models.CartSnapshot) (string, error) {
	return s.publish(ctx, "pos.hold", "hold_order", "HOLD", "", snapshot)
}

// SaveOrder publishes a save of the current order
func (s *RabbitSink) SaveOrder(ctx context.Context, snapshot models.CartSnapshot) (string, error) {
	return s.publish(ctx, "pos.save", "save_order", "ORD", "", snapshot)
}

// PrintOrder publishes a print request for the current order
func (s *RabbitSink) PrintOrder(ctx context.Context, snapshot models.CartSnapshot) (string, error) {
	return s.publish(ctx, "pos.print", "print_order", "PRN", "", snapshot)
}

// ProcessPayment publishes a payment with the selected method
func (s *RabbitSink) ProcessPayment(ctx context.Context, method models.PaymentMethod, snapshot models.CartSnapshot) (string, error) {
	return s.publish(ctx, "pos.payment", "process_payment", "TXN", method, snapshot)
}

func (s *RabbitSink) publish(ctx context.Context, routingKey, action, prefix string, method models.PaymentMethod, snapshot models.CartSnapshot) (string, error) {
	reference := fmt.Sprintf("%s-%04d", prefix, rand.IntN(10000))
	message := ActionMessage{
		Action:    action,
		Reference: reference,
		Method:    method,
		Cart:      snapshot,
		Timestamp: time.Now().UTC(),
	}

	if err := s.publisher.Publish(ctx, routingKey, message); err != nil {
		return "", err
	}
	return reference, nil
}
