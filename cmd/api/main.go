package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/angelmondragon/creatordash-billing/api/routes"
	"github.com/angelmondragon/creatordash-billing/internal/analytics"
	"github.com/angelmondragon/creatordash-billing/internal/billing"
	"github.com/angelmondragon/creatordash-billing/internal/customers"
	"github.com/angelmondragon/creatordash-billing/internal/subscriptions"
	stripewebhook "github.com/angelmondragon/creatordash-billing/internal/webhooks/stripe"
	"github.com/angelmondragon/creatordash-billing/pkg/config"
	"github.com/angelmondragon/creatordash-billing/pkg/db"
	"github.com/angelmondragon/creatordash-billing/pkg/logger"
	"github.com/angelmondragon/creatordash-billing/pkg/metrics"
	"github.com/angelmondragon/creatordash-billing/pkg/migrate"
	"github.com/angelmondragon/creatordash-billing/pkg/redis"
	"github.com/angelmondragon/creatordash-billing/pkg/stripe"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var (
		redisClient  *redis.Client
		webhookGuard *stripewebhook.IdempotencyGuard
	)
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()

		webhookGuard, err = stripewebhook.NewIdempotencyGuard(redisClient, cfg.Redis.IdempotencyTTL, stripewebhook.IdempotencyScope)
		if err != nil {
			logg.Error(context.Background(), "failed to create webhook idempotency guard", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "redis not configured, webhook dedupe guard disabled")
	}

	stripeClient, err := stripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap stripe client", err)
		os.Exit(1)
	}

	customerResolver, err := customers.NewResolver(customers.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create customer resolver", err)
		os.Exit(1)
	}

	billingService, err := billing.NewService(billing.ServiceParams{
		Repo:              billing.NewRepository(dbClient.DB()),
		TransactionRunner: dbClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create billing service", err)
		os.Exit(1)
	}

	webhookVerifier, err := stripewebhook.NewVerifier(stripeClient.SigningSecret(), stripeClient.WebhookTolerance())
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook verifier", err)
		os.Exit(1)
	}

	webhookEvents, err := stripewebhook.NewRouter(stripewebhook.RouterParams{
		Customers: customerResolver,
		Billing:   billingService,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook router", err)
		os.Exit(1)
	}

	subscriptionService, err := subscriptions.NewService(subscriptions.ServiceParams{
		Customers:     customerResolver,
		Subscriptions: billingService,
		Stripe:        subscriptions.NewStripeClient(stripeClient),
		Logger:        logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create subscription service", err)
		os.Exit(1)
	}

	analyticsService, err := analytics.NewService(dbClient, cfg.Analytics.Procedure)
	if err != nil {
		logg.Error(context.Background(), "failed to create analytics service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	webhookMetrics := metrics.NewWebhookMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":        cfg.App.Env,
		"addr":       addr,
		"stripe_env": stripeClient.Environment(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			registry,
			analyticsService,
			subscriptionService,
			webhookVerifier,
			webhookEvents,
			webhookGuard,
			webhookMetrics,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
