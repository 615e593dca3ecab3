package controllers

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/angelmondragon/creatordash-billing/api/responses"
	"github.com/angelmondragon/creatordash-billing/pkg/config"
	"github.com/angelmondragon/creatordash-billing/pkg/logger"
	"go.uber.org/multierr"
)

const readyTimeout = 2 * time.Second

// Pinger is satisfied by the db and redis clients.
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthStatus struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-CreatorDash-Env", cfg.App.Env)
		responses.WriteJSON(w, http.StatusOK, healthStatus{Status: "live"})
	}
}

// HealthReady pings every dependency; any failure answers 503.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	names := make([]string, 0, len(deps))
	for name, dep := range deps {
		if dep != nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-CreatorDash-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		var errs error
		checks := make(map[string]string, len(names))
		for _, name := range names {
			if err := deps[name].Ping(ctx); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", name, err))
				checks[name] = "down"
				continue
			}
			checks[name] = "up"
		}

		if errs != nil {
			if logg != nil {
				logg.Error(r.Context(), "readiness check failed", errs)
			}
			responses.WriteJSON(w, http.StatusServiceUnavailable, healthStatus{Status: "unavailable", Checks: checks})
			return
		}
		responses.WriteJSON(w, http.StatusOK, healthStatus{Status: "ready", Checks: checks})
	}
}
