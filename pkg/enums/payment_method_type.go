package enums

import (
	"fmt"

	"github.com/stripe/stripe-go/v84"
)

// PaymentMethodType mirrors the Stripe payment method categories the
// dashboard renders. Other Stripe types are stored verbatim.
type PaymentMethodType string

const (
	PaymentMethodTypeCard          = PaymentMethodType(stripe.PaymentMethodTypeCard)
	PaymentMethodTypeUSBankAccount = PaymentMethodType(stripe.PaymentMethodTypeUSBankAccount)
	PaymentMethodTypeSEPADebit     = PaymentMethodType(stripe.PaymentMethodTypeSEPADebit)
	PaymentMethodTypeLink          = PaymentMethodType(stripe.PaymentMethodTypeLink)
)

var knownPaymentMethodTypes = map[PaymentMethodType]struct{}{
	PaymentMethodTypeCard:          {},
	PaymentMethodTypeUSBankAccount: {},
	PaymentMethodTypeSEPADebit:     {},
	PaymentMethodTypeLink:          {},
}

func (p PaymentMethodType) String() string {
	return string(p)
}

func (p PaymentMethodType) IsValid() bool {
	_, ok := knownPaymentMethodTypes[p]
	return ok
}

// IsCard reports whether brand/last4/expiry columns apply.
func (p PaymentMethodType) IsCard() bool {
	return p == PaymentMethodTypeCard
}

func ParsePaymentMethodType(value string) (PaymentMethodType, error) {
	if t := PaymentMethodType(value); t.IsValid() {
		return t, nil
	}
	return "", fmt.Errorf("invalid payment method type %q", value)
}
