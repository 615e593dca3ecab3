package stripewebhook

// Outcome classifies how a verified event was handled. Every outcome is a
// successful delivery from Stripe's point of view.
type Outcome string

const (
	OutcomeApplied   Outcome = "applied"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeIgnored   Outcome = "ignored"
	OutcomeDuplicate Outcome = "duplicate"
)

// Result is returned by every event handler.
type Result struct {
	Outcome Outcome
	Reason  string
}

func applied() Result {
	return Result{Outcome: OutcomeApplied}
}

func skipped(reason string) Result {
	return Result{Outcome: OutcomeSkipped, Reason: reason}
}
