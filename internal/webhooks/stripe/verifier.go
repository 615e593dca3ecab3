package stripewebhook

import (
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/creatordash-billing/pkg/errors"
	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/webhook"
)

// SignatureHeader carries Stripe's timestamped HMAC signatures.
const SignatureHeader = "Stripe-Signature"

// Verifier authenticates raw webhook bodies against the endpoint secret.
type Verifier struct {
	secret    string
	tolerance time.Duration
}

func NewVerifier(secret string, tolerance time.Duration) (*Verifier, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "webhook signing secret required")
	}
	if tolerance <= 0 {
		tolerance = webhook.DefaultTolerance
	}
	return &Verifier{secret: secret, tolerance: tolerance}, nil
}

// Verify checks the signature header over the unmodified payload bytes and
// decodes the event. Stripe API version mismatches are accepted because
// payloads are decoded into local schemas afterwards.
func (v *Verifier) Verify(payload []byte, header string) (*stripe.Event, error) {
	if strings.TrimSpace(header) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeMissingSignature, "missing stripe-signature header")
	}
	event, err := webhook.ConstructEventWithOptions(payload, header, v.secret, webhook.ConstructEventOptions{
		Tolerance:                v.tolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInvalidSignature, err, "invalid webhook signature")
	}
	return &event, nil
}
