package models

import "fmt"

// PaymentMethod represents how the customer pays
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "Cash"
	PaymentCard PaymentMethod = "Card"
	PaymentUPI  PaymentMethod = "UPI"
)

// ParsePaymentMethod validates a raw payment method string
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PaymentCash, PaymentCard, PaymentUPI:
		return PaymentMethod(s), nil
	default:
		return "", fmt.Errorf("payment method must be one of: Cash, Card, UPI")
	}
}
