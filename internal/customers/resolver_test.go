package customers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/angelmondragon/creatordash-billing/pkg/db/dbtest"
	"github.com/angelmondragon/creatordash-billing/pkg/db/models"
	pkgerrors "github.com/angelmondragon/creatordash-billing/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolverResolvesKnownCustomer(t *testing.T) {
	conn := dbtest.Open(t)
	userID := uuid.New()
	require.NoError(t, conn.Create(&models.Customer{UserID: userID, StripeCustomerID: "cus_1"}).Error)

	resolver, err := NewResolver(NewRepository(conn))
	require.NoError(t, err)

	got, found, err := resolver.Resolve(context.Background(), "cus_1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, userID, got)
}

func TestResolverMissIsNotAnError(t *testing.T) {
	conn := dbtest.Open(t)
	resolver, err := NewResolver(NewRepository(conn))
	require.NoError(t, err)

	for _, id := range []string{"cus_unknown", "", "   "} {
		got, found, err := resolver.Resolve(context.Background(), id)
		require.NoError(t, err)
		assert.False(t, found)
		assert.Equal(t, uuid.Nil, got)
	}
}

func TestResolverStripeCustomerIDPicksLatest(t *testing.T) {
	conn := dbtest.Open(t)
	userID := uuid.New()
	older := time.Now().Add(-time.Hour)
	require.NoError(t, conn.Create(&models.Customer{UserID: userID, StripeCustomerID: "cus_old", CreatedAt: older}).Error)
	require.NoError(t, conn.Create(&models.Customer{UserID: userID, StripeCustomerID: "cus_new"}).Error)

	resolver, err := NewResolver(NewRepository(conn))
	require.NoError(t, err)

	got, found, err := resolver.StripeCustomerID(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "cus_new", got)

	_, found, err = resolver.StripeCustomerID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.False(t, found)
}

func TestResolverWrapsStoreErrors(t *testing.T) {
	resolver, err := NewResolver(failingRepo{})
	require.NoError(t, err)

	_, _, err = resolver.Resolve(context.Background(), "cus_1")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestNewResolverRequiresRepository(t *testing.T) {
	_, err := NewResolver(nil)
	require.Error(t, err)
}

type failingRepo struct{}

func (failingRepo) FindByStripeCustomerID(context.Context, string) (*models.Customer, error) {
	return nil, errors.New("connection reset")
}

func (failingRepo) FindByUserID(context.Context, uuid.UUID) (*models.Customer, error) {
	return nil, errors.New("connection reset")
}
