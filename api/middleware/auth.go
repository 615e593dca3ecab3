package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/angelmondragon/creatordash-billing/api/responses"
	pkgAuth "github.com/angelmondragon/creatordash-billing/pkg/auth"
	"github.com/angelmondragon/creatordash-billing/pkg/config"
	pkgerrors "github.com/angelmondragon/creatordash-billing/pkg/errors"
	"github.com/angelmondragon/creatordash-billing/pkg/logger"
)

// Auth validates a Supabase bearer token and seeds the request context with the user id.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "unauthorized"))
				return
			}

			scheme, token, _ := strings.Cut(raw, " ")
			token = strings.TrimSpace(token)
			if !strings.EqualFold(scheme, "Bearer") || token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "unauthorized"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "unauthorized"))
				return
			}

			userID, err := claims.UserID()
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "unauthorized"))
				return
			}

			ctx := WithUserID(r.Context(), userID)
			ctx = context.WithValue(ctx, ctxRole, claims.Role)

			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    userID.String(),
					"actor_role": claims.Role,
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
