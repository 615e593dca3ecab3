package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/creatordash-billing/pkg/config"
	"github.com/angelmondragon/creatordash-billing/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const keyNamespace = "creatordash"

var errNotConnected = errors.New("redis client not initialized")

// commands is the subset of go-redis the client relies on.
type commands interface {
	Ping(ctx context.Context) *redis.StatusCmd
	Set(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Close() error
}

// MarkerStore records keys with an expiry and reports whether one is present.
type MarkerStore interface {
	Mark(ctx context.Context, key, value string, ttl time.Duration) error
	Marked(ctx context.Context, key string) (bool, error)
}

// Client wraps the redis connection used for webhook dedupe.
type Client struct {
	cmd commands
}

// New dials Redis and fails fast when the server is unreachable.
func New(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (*Client, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opts.Addr, err)
	}
	if logg != nil {
		logg.Info(logg.WithFields(ctx, map[string]any{"addr": opts.Addr, "db": opts.DB}), "redis.connected")
	}
	return &Client{cmd: rdb}, nil
}

// optionsFromConfig prefers the URL; pool and timeout settings from config
// fill whatever the URL left unset.
func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	opts := &redis.Options{
		Addr:     strings.TrimSpace(cfg.Address),
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if rawURL := strings.TrimSpace(cfg.URL); rawURL != "" {
		parsed, err := redis.ParseURL(rawURL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	}
	if opts.Addr == "" {
		return nil, errors.New("redis url or address is required")
	}

	opts.ClientName = "creatordash-billing"
	setDefault(&opts.PoolSize, cfg.PoolSize)
	setDefault(&opts.DialTimeout, cfg.DialTimeout)
	setDefault(&opts.ReadTimeout, cfg.ReadTimeout)
	setDefault(&opts.WriteTimeout, cfg.WriteTimeout)
	return opts, nil
}

func setDefault[T int | time.Duration](field *T, fallback T) {
	if *field == 0 {
		*field = fallback
	}
}

// Mark stores value at key for ttl, overwriting any earlier marker.
func (c *Client) Mark(ctx context.Context, key, value string, ttl time.Duration) error {
	if c == nil || c.cmd == nil {
		return errNotConnected
	}
	return c.cmd.Set(ctx, key, value, ttl).Err()
}

func (c *Client) Marked(ctx context.Context, key string) (bool, error) {
	if c == nil || c.cmd == nil {
		return false, errNotConnected
	}
	n, err := c.cmd.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.cmd == nil {
		return errNotConnected
	}
	return c.cmd.Ping(ctx).Err()
}

func (c *Client) Close() error {
	if c == nil || c.cmd == nil {
		return nil
	}
	return c.cmd.Close()
}

// Key joins parts under the service namespace, skipping blanks:
// Key("stripe_webhook", "evt_1") == "creatordash:stripe_webhook:evt_1".
func Key(parts ...string) string {
	out := make([]string, 0, len(parts)+1)
	out = append(out, keyNamespace)
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return strings.Join(out, ":")
}
