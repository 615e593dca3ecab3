package webhooks

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/angelmondragon/creatordash-billing/api/responses"
	stripewebhook "github.com/angelmondragon/creatordash-billing/internal/webhooks/stripe"
	pkgerrors "github.com/angelmondragon/creatordash-billing/pkg/errors"
	"github.com/angelmondragon/creatordash-billing/pkg/logger"
	"github.com/stripe/stripe-go/v84"
)

// MaxPayloadBytes bounds webhook bodies; Stripe events are far smaller.
const MaxPayloadBytes = 256 << 10

type eventVerifier interface {
	Verify(payload []byte, header string) (*stripe.Event, error)
}

type eventDispatcher interface {
	Handles(eventType stripe.EventType) bool
	Dispatch(ctx context.Context, event *stripe.Event) (stripewebhook.Result, error)
}

type eventGuard interface {
	Processed(ctx context.Context, eventID string) (bool, error)
	MarkProcessed(ctx context.Context, eventID, eventType string) error
}

type webhookMetrics interface {
	Observe(eventType, outcome string, duration time.Duration)
	IncRejected(reason string)
}

// StripeWebhook verifies, dedupes and reconciles Stripe billing events.
// Redeliveries of an event that already succeeded are acknowledged as
// duplicates.
// guard and metrics may be nil.
func StripeWebhook(verifier eventVerifier, dispatcher eventDispatcher, guard eventGuard, metrics webhookMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if verifier == nil || dispatcher == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook handler unavailable"))
			return
		}

		payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxPayloadBytes))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request body"))
			return
		}

		event, err := verifier.Verify(payload, r.Header.Get(stripewebhook.SignatureHeader))
		if err != nil {
			if metrics != nil {
				metrics.IncRejected(string(pkgerrors.As(err).Code()))
			}
			responses.WriteError(ctx, logg, w, err)
			return
		}

		eventType := string(event.Type)
		if logg != nil {
			ctx = logg.WithEvent(ctx, event.ID, eventType)
		}
		start := time.Now()

		// only completed deliveries are deduped
		checked := guard != nil && dispatcher.Handles(event.Type)
		if checked {
			done, err := guard.Processed(ctx, event.ID)
			if err != nil {
				if logg != nil {
					logg.Warn(logg.WithField(ctx, "error", err.Error()), "stripe event dedupe check failed, processing anyway")
				}
			} else if done {
				if metrics != nil {
					metrics.Observe(eventType, string(stripewebhook.OutcomeDuplicate), time.Since(start))
				}
				if logg != nil {
					logg.Info(ctx, "stripe event already processed")
				}
				responses.WriteReceived(w)
				return
			}
		}

		result, err := dispatcher.Dispatch(ctx, event)
		if err != nil {
			if metrics != nil {
				metrics.Observe(eventType, "failed", time.Since(start))
			}
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if checked {
			if err := guard.MarkProcessed(ctx, event.ID, eventType); err != nil && logg != nil {
				logg.Warn(logg.WithField(ctx, "error", err.Error()), "stripe event marker not written")
			}
		}

		if metrics != nil {
			metrics.Observe(eventType, string(result.Outcome), time.Since(start))
		}
		if logg != nil {
			logg.Info(logg.WithField(ctx, "outcome", string(result.Outcome)), "stripe event processed")
		}
		responses.WriteReceived(w)
	}
}
