package customers

import (
	"context"
	"strings"

	pkgerrors "github.com/angelmondragon/creatordash-billing/pkg/errors"
	"github.com/google/uuid"
)

// Resolver maps identifiers between Stripe customers and local users.
type Resolver struct {
	repo Repository
}

func NewResolver(repo Repository) (*Resolver, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "customer repository required")
	}
	return &Resolver{repo: repo}, nil
}

// Resolve returns the local user for a Stripe customer id. A miss is reported
// through found=false, never as an error.
func (r *Resolver) Resolve(ctx context.Context, stripeCustomerID string) (uuid.UUID, bool, error) {
	stripeCustomerID = strings.TrimSpace(stripeCustomerID)
	if stripeCustomerID == "" {
		return uuid.Nil, false, nil
	}
	customer, err := r.repo.FindByStripeCustomerID(ctx, stripeCustomerID)
	if err != nil {
		return uuid.Nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	if customer == nil {
		return uuid.Nil, false, nil
	}
	return customer.UserID, true, nil
}

// StripeCustomerID returns the Stripe customer for a local user.
func (r *Resolver) StripeCustomerID(ctx context.Context, userID uuid.UUID) (string, bool, error) {
	customer, err := r.repo.FindByUserID(ctx, userID)
	if err != nil {
		return "", false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	if customer == nil || customer.StripeCustomerID == "" {
		return "", false, nil
	}
	return customer.StripeCustomerID, true, nil
}
