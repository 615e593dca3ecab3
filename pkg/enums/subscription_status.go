package enums

import (
	"strings"

	"github.com/stripe/stripe-go/v84"
)

// SubscriptionStatus is the subscription state as last reported by Stripe.
// Values are stored verbatim so new Stripe states survive a round trip.
type SubscriptionStatus string

const (
	SubscriptionStatusTrialing          = SubscriptionStatus(stripe.SubscriptionStatusTrialing)
	SubscriptionStatusActive            = SubscriptionStatus(stripe.SubscriptionStatusActive)
	SubscriptionStatusPastDue           = SubscriptionStatus(stripe.SubscriptionStatusPastDue)
	SubscriptionStatusCanceled          = SubscriptionStatus(stripe.SubscriptionStatusCanceled)
	SubscriptionStatusIncomplete        = SubscriptionStatus(stripe.SubscriptionStatusIncomplete)
	SubscriptionStatusIncompleteExpired = SubscriptionStatus(stripe.SubscriptionStatusIncompleteExpired)
	SubscriptionStatusUnpaid            = SubscriptionStatus(stripe.SubscriptionStatusUnpaid)
	SubscriptionStatusPaused            = SubscriptionStatus(stripe.SubscriptionStatusPaused)
)

// subscriptionStatuses maps each known status to whether it is terminal.
var subscriptionStatuses = map[SubscriptionStatus]bool{
	SubscriptionStatusTrialing:          false,
	SubscriptionStatusActive:            false,
	SubscriptionStatusPastDue:           false,
	SubscriptionStatusIncomplete:        false,
	SubscriptionStatusUnpaid:            false,
	SubscriptionStatusPaused:            false,
	SubscriptionStatusCanceled:          true,
	SubscriptionStatusIncompleteExpired: true,
}

var orderedSubscriptionStatuses = []SubscriptionStatus{
	SubscriptionStatusTrialing,
	SubscriptionStatusActive,
	SubscriptionStatusPastDue,
	SubscriptionStatusIncomplete,
	SubscriptionStatusUnpaid,
	SubscriptionStatusPaused,
	SubscriptionStatusCanceled,
	SubscriptionStatusIncompleteExpired,
}

func (s SubscriptionStatus) String() string {
	return string(s)
}

func (s SubscriptionStatus) IsValid() bool {
	_, ok := subscriptionStatuses[s]
	return ok
}

// IsTerminal reports whether Stripe will never move the subscription again.
func (s SubscriptionStatus) IsTerminal() bool {
	return subscriptionStatuses[s]
}

// TerminalSubscriptionStatuses lists the states a plan change cannot act on.
func TerminalSubscriptionStatuses() []SubscriptionStatus {
	var terminal []SubscriptionStatus
	for _, status := range orderedSubscriptionStatuses {
		if status.IsTerminal() {
			terminal = append(terminal, status)
		}
	}
	return terminal
}

// SubscriptionStatusFromStripe keeps unknown values as-is; callers decide
// whether to log them.
func SubscriptionStatusFromStripe(status stripe.SubscriptionStatus) SubscriptionStatus {
	return SubscriptionStatus(strings.TrimSpace(string(status)))
}
