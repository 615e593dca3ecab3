package stripewebhook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/creatordash-billing/pkg/redis"
)

// IdempotencyScope namespaces Stripe event ids in the dedupe store.
const IdempotencyScope = "stripe_webhook"

// markTimeout bounds the post-success marker write, which runs detached from
// the request context.
const markTimeout = 2 * time.Second

// IdempotencyGuard remembers events whose handler already succeeded so
// redeliveries can be acknowledged without touching the store. Nothing is
// recorded before or during processing: concurrent deliveries both run and
// the row-level upserts keep that safe. A nil guard reports every event as
// unprocessed, which is how the API runs without Redis.
type IdempotencyGuard struct {
	store redis.MarkerStore
	ttl   time.Duration
	scope string
}

func NewIdempotencyGuard(store redis.MarkerStore, ttl time.Duration, scope string) (*IdempotencyGuard, error) {
	if store == nil {
		return nil, errors.New("idempotency store is required")
	}
	if ttl < 0 {
		return nil, errors.New("ttl must be non-negative")
	}
	if scope == "" {
		return nil, errors.New("scope is required")
	}
	return &IdempotencyGuard{store: store, ttl: ttl, scope: scope}, nil
}

// Processed reports whether a previous delivery of eventID completed.
func (g *IdempotencyGuard) Processed(ctx context.Context, eventID string) (bool, error) {
	if g == nil {
		return false, nil
	}
	if eventID == "" {
		return false, errors.New("event id is required")
	}
	done, err := g.store.Marked(ctx, g.key(eventID))
	if err != nil {
		return false, fmt.Errorf("check stripe event: %w", err)
	}
	return done, nil
}

// MarkProcessed records that eventID was reconciled. It must only be called
// after the handler succeeded. The write survives cancellation of ctx, since
// a client that hung up after a successful run still leaves the event done.
func (g *IdempotencyGuard) MarkProcessed(ctx context.Context, eventID, eventType string) error {
	if g == nil {
		return nil
	}
	if eventID == "" {
		return errors.New("event id is required")
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), markTimeout)
	defer cancel()
	if err := g.store.Mark(ctx, g.key(eventID), eventType, g.ttl); err != nil {
		return fmt.Errorf("mark stripe event: %w", err)
	}
	return nil
}

func (g *IdempotencyGuard) key(eventID string) string {
	return redis.Key(g.scope, eventID)
}
