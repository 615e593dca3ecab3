package stripe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v84"

	"github.com/angelmondragon/creatordash-billing/pkg/config"
	"github.com/angelmondragon/creatordash-billing/pkg/logger"
)

const (
	defaultTolerance  = 5 * time.Minute
	requestTimeout    = 20 * time.Second
	maxNetworkRetries = 2
)

var (
	errAPIKeyRequired = errors.New("stripe api key is required")
	errSecretRequired = errors.New("stripe webhook secret is required")
)

// key prefixes accepted per environment; restricted keys (rk_) are allowed
var keyPrefixes = map[string][]string{
	"test": {"sk_test_", "rk_test_"},
	"live": {"sk_live_", "rk_live_"},
}

// Client bundles the injected Stripe API client with the webhook settings
// for the configured environment. Nothing is stored in stripe-go globals.
type Client struct {
	api           *stripe.Client
	environment   string
	signingSecret string
	tolerance     time.Duration
}

// NewClient checks that the key matches the environment (no live key in a
// test deployment and vice versa) and builds the API client.
func NewClient(ctx context.Context, cfg config.StripeConfig, logg *logger.Logger) (*Client, error) {
	env := cfg.Environment()
	prefixes, ok := keyPrefixes[env]
	if !ok {
		return nil, fmt.Errorf("stripe environment must be test or live, got %q", env)
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}
	if !hasAnyPrefix(apiKey, prefixes) {
		return nil, fmt.Errorf("stripe environment %q requires a key starting with %s", env, strings.Join(prefixes, " or "))
	}

	secret := strings.TrimSpace(cfg.WebhookSecret)
	if secret == "" {
		return nil, errSecretRequired
	}

	tolerance := cfg.WebhookTolerance
	if tolerance <= 0 {
		tolerance = defaultTolerance
	}

	backends := stripe.NewBackendsWithConfig(&stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: requestTimeout},
		MaxNetworkRetries: stripe.Int64(maxNetworkRetries),
		LeveledLogger:     newLeveledLogger(logg),
	})

	if logg != nil {
		logg.Info(logg.WithField(ctx, "stripe_env", env), "stripe.client.ready")
	}

	return &Client{
		api:           stripe.NewClient(apiKey, stripe.WithBackends(backends)),
		environment:   env,
		signingSecret: secret,
		tolerance:     tolerance,
	}, nil
}

func hasAnyPrefix(value string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}

// API returns the underlying Stripe API client.
func (c *Client) API() *stripe.Client {
	if c == nil {
		return nil
	}
	return c.api
}

func (c *Client) Environment() string {
	if c == nil {
		return ""
	}
	return c.environment
}

func (c *Client) SigningSecret() string {
	if c == nil {
		return ""
	}
	return c.signingSecret
}

// WebhookTolerance is the accepted age of a signed webhook timestamp.
func (c *Client) WebhookTolerance() time.Duration {
	if c == nil || c.tolerance <= 0 {
		return defaultTolerance
	}
	return c.tolerance
}

// leveledLogger routes stripe-go's request logging into zerolog. Debug and
// info lines are dropped; they carry full request traces.
type leveledLogger struct {
	log zerolog.Logger
}

func newLeveledLogger(logg *logger.Logger) stripe.LeveledLoggerInterface {
	if logg == nil {
		return &leveledLogger{log: zerolog.Nop()}
	}
	return &leveledLogger{log: logg.Component("stripe")}
}

func (l *leveledLogger) Debugf(string, ...interface{}) {}
func (l *leveledLogger) Infof(string, ...interface{})  {}

func (l *leveledLogger) Warnf(format string, v ...interface{}) {
	l.log.Warn().Msgf(format, v...)
}

func (l *leveledLogger) Errorf(format string, v ...interface{}) {
	l.log.Error().Msgf(format, v...)
}
