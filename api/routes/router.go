package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/creatordash-billing/api/controllers"
	analyticscontrollers "github.com/angelmondragon/creatordash-billing/api/controllers/analytics"
	subscriptioncontrollers "github.com/angelmondragon/creatordash-billing/api/controllers/subscriptions"
	webhookcontrollers "github.com/angelmondragon/creatordash-billing/api/controllers/webhooks"
	"github.com/angelmondragon/creatordash-billing/api/middleware"
	"github.com/angelmondragon/creatordash-billing/internal/analytics"
	subscriptionsvc "github.com/angelmondragon/creatordash-billing/internal/subscriptions"
	stripewebhook "github.com/angelmondragon/creatordash-billing/internal/webhooks/stripe"
	"github.com/angelmondragon/creatordash-billing/pkg/config"
	"github.com/angelmondragon/creatordash-billing/pkg/db"
	"github.com/angelmondragon/creatordash-billing/pkg/logger"
	"github.com/angelmondragon/creatordash-billing/pkg/metrics"
	"github.com/angelmondragon/creatordash-billing/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	gatherer prometheus.Gatherer,
	analyticsService analytics.Service,
	subscriptionsService subscriptionsvc.Service,
	stripeVerifier *stripewebhook.Verifier,
	stripeEvents *stripewebhook.Router,
	stripeWebhookGuard *stripewebhook.IdempotencyGuard,
	webhookMetrics *metrics.WebhookMetrics,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	readyDeps := map[string]controllers.Pinger{}
	if dbP != nil {
		readyDeps["db"] = dbP
	}
	if redisClient != nil {
		readyDeps["redis"] = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readyDeps))
	})

	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/stripe", webhookcontrollers.StripeWebhook(stripeVerifier, stripeEvents, stripeWebhookGuard, webhookMetrics, logg))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.CORS())

		r.Route("/api/v1/subscriptions/update", func(r chi.Router) {
			r.Options("/", middleware.Preflight())
			r.With(middleware.Auth(cfg.JWT, logg)).Post("/", subscriptioncontrollers.UpdateSubscription(subscriptionsService, logg))
		})

		r.Route("/api/v1/analytics", func(r chi.Router) {
			r.Options("/", middleware.Preflight())
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, logg))
				r.Get("/", analyticscontrollers.CreatorDashboard(analyticsService, logg))
				r.Post("/", analyticscontrollers.CreatorDashboard(analyticsService, logg))
			})
		})
	})

	return r
}
