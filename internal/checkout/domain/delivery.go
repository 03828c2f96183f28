package domain

import (
	"errors"
	"strings"
	"unicode"
)

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

var (
	ErrAddressRequired      = errors.New("delivery address is required")
	ErrPhoneInvalid         = errors.New("phone number must contain at least 10 digits")
	ErrPaymentMethodUnknown = errors.New("payment method must be cash or card")
)

// DeliveryDetails is the checkout form input. Validate runs before a
// submission touches the remote store.
type DeliveryDetails struct {
	Address       string        `json:"address"`
	Phone         string        `json:"phone"`
	PaymentMethod PaymentMethod `json:"payment_method"`
}

func (d DeliveryDetails) Validate() error {
	if strings.TrimSpace(d.Address) == "" {
		return ErrAddressRequired
	}
	if countDigits(d.Phone) < 10 {
		return ErrPhoneInvalid
	}
	if d.PaymentMethod != PaymentCash && d.PaymentMethod != PaymentCard {
		return ErrPaymentMethodUnknown
	}
	return nil
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
