package subscriptions

import (
	"net/http"

	"github.com/angelmondragon/creatordash-billing/api/middleware"
	"github.com/angelmondragon/creatordash-billing/api/responses"
	"github.com/angelmondragon/creatordash-billing/api/validators"
	subsvc "github.com/angelmondragon/creatordash-billing/internal/subscriptions"
	pkgerrors "github.com/angelmondragon/creatordash-billing/pkg/errors"
	"github.com/angelmondragon/creatordash-billing/pkg/logger"
)

type updateSubscriptionRequest struct {
	PriceID string `json:"priceId" validate:"required"`
}

// UpdateSubscription switches the caller's subscription to a new price. The
// local row follows once Stripe delivers customer.subscription.updated.
func UpdateSubscription(svc subsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "subscription service unavailable"))
			return
		}

		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "unauthorized"))
			return
		}

		var payload updateSubscriptionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.ChangePlan(ctx, userID, payload.PriceID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w)
	}
}
