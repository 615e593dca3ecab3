package analytics

import (
	"net/http"

	"github.com/angelmondragon/creatordash-billing/api/middleware"
	"github.com/angelmondragon/creatordash-billing/api/responses"
	"github.com/angelmondragon/creatordash-billing/internal/analytics"
	pkgerrors "github.com/angelmondragon/creatordash-billing/pkg/errors"
	"github.com/angelmondragon/creatordash-billing/pkg/logger"
)

// CreatorDashboard returns the caller's dashboard aggregation as produced by the database.
func CreatorDashboard(service analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if service == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "unauthorized"))
			return
		}

		result, err := service.Dashboard(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteRawJSON(w, http.StatusOK, result)
	}
}
