package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/SubFox/app/models"
	"github.com/ManuelReschke/SubFox/internal/pkg/entitlements"
)

func remoteSub() *RemoteSubscription {
	return &RemoteSubscription{
		ID:         "sub_1",
		CustomerID: "cus_1",
		Status:     "active",
		Metadata:   map[string]string{"source": "pricing"},
		Items: []SubscriptionItem{
			{PriceID: "price_1", Quantity: 2, CurrentPeriodStart: 1700000000, CurrentPeriodEnd: 1702592000},
			{PriceID: "price_ignored", Quantity: 1},
		},
		Created:    1699990000,
		TrialStart: 1699990000,
		TrialEnd:   1700000000,
		DefaultPaymentMethod: &PaymentMethod{
			ID:   "pm_1",
			Type: "card",
			BillingDetails: BillingDetails{
				Name:    "Ada Lovelace",
				Phone:   "+44 20 0000 0000",
				Address: &Address{Line1: "12 St James's Square", City: "London", Country: "GB"},
			},
			Details: map[string]string{"brand": "visa", "last4": "4242"},
		},
	}
}

func reconcileFixture() (*Service, *fakeRepo, *fakeProvider) {
	repo := newFakeRepo()
	repo.customers[7] = models.Customer{ID: 7, StripeCustomerID: "cus_1"}
	provider := newFakeProvider()
	provider.subscriptions["sub_1"] = remoteSub()
	return NewService(repo, provider), repo, provider
}

func TestSubscriptionRow(t *testing.T) {
	row, err := SubscriptionRow(7, remoteSub())
	require.NoError(t, err)

	assert.Equal(t, "sub_1", row.ID)
	assert.Equal(t, uint(7), row.UserID)
	assert.Equal(t, models.SubscriptionStatusActive, row.Status)
	assert.Equal(t, "price_1", row.PriceID)
	assert.Equal(t, int64(2), row.Quantity)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), row.CurrentPeriodStart)
	assert.Equal(t, time.Unix(1702592000, 0).UTC(), row.CurrentPeriodEnd)
	assert.Equal(t, time.Unix(1699990000, 0).UTC(), row.Created)
	assert.Nil(t, row.CancelAt)
	assert.Nil(t, row.CanceledAt)
	assert.Nil(t, row.EndedAt)
	require.NotNil(t, row.TrialEnd)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), *row.TrialEnd)
	assert.Equal(t, entitlements.DefaultNoteLimit, row.NoteLimit)
	assert.Equal(t, "pricing", row.Metadata.Get("source"))
}

func TestSubscriptionRowWithoutItems(t *testing.T) {
	remote := remoteSub()
	remote.Items = nil
	_, err := SubscriptionRow(7, remote)
	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestReconcileUnknownCustomer(t *testing.T) {
	svc, repo, provider := reconcileFixture()

	err := svc.Reconcile(context.Background(), "sub_1", "cus_missing", false)
	assert.ErrorIs(t, err, ErrUnknownCustomer)
	assert.Empty(t, repo.subscriptions)
	assert.Zero(t, provider.fetches)
}

func TestReconcileFetchFailure(t *testing.T) {
	svc, repo, provider := reconcileFixture()
	provider.failFetch = errors.New("stripe unavailable")

	err := svc.Reconcile(context.Background(), "sub_1", "cus_1", false)
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.Empty(t, repo.subscriptions)
}

func TestReconcilePersistFailure(t *testing.T) {
	svc, repo, _ := reconcileFixture()
	repo.failUpsert = errors.New("deadlock")

	err := svc.Reconcile(context.Background(), "sub_1", "cus_1", false)
	assert.ErrorIs(t, err, ErrSyncFailed)
}

func TestReconcileConverges(t *testing.T) {
	svc, repo, _ := reconcileFixture()
	ctx := context.Background()

	require.NoError(t, svc.Reconcile(ctx, "sub_1", "cus_1", false))
	first := repo.subscriptions["sub_1"]
	require.NoError(t, svc.Reconcile(ctx, "sub_1", "cus_1", false))

	assert.Len(t, repo.subscriptions, 1)
	assert.Equal(t, first, repo.subscriptions["sub_1"])
}

func TestReconcileReplacesWholeRow(t *testing.T) {
	svc, repo, provider := reconcileFixture()
	ctx := context.Background()
	require.NoError(t, svc.Reconcile(ctx, "sub_1", "cus_1", false))

	canceled := remoteSub()
	canceled.Status = "canceled"
	canceled.CanceledAt = 1701000000
	canceled.EndedAt = 1701000000
	canceled.TrialStart = 0
	canceled.TrialEnd = 0
	provider.subscriptions["sub_1"] = canceled
	require.NoError(t, svc.Reconcile(ctx, "sub_1", "cus_1", false))

	stored := repo.subscriptions["sub_1"]
	assert.Equal(t, models.SubscriptionStatusCanceled, stored.Status)
	assert.NotNil(t, stored.CanceledAt)
	assert.NotNil(t, stored.EndedAt)
	assert.Nil(t, stored.TrialStart)
	assert.Nil(t, stored.TrialEnd)
}

func TestReconcileNewCopiesBillingDetails(t *testing.T) {
	svc, repo, provider := reconcileFixture()

	require.NoError(t, svc.Reconcile(context.Background(), "sub_1", "cus_1", true))

	details, ok := provider.updates["cus_1"]
	require.True(t, ok)
	assert.Equal(t, "Ada Lovelace", details.Name)

	stored := repo.userBilling[7]
	assert.JSONEq(t, `{"line1":"12 St James's Square","line2":"","city":"London","state":"","postal_code":"","country":"GB"}`, stored.address)
	assert.JSONEq(t, `{"brand":"visa","last4":"4242"}`, stored.method)
}

func TestReconcileUpdateDoesNotCopyBillingDetails(t *testing.T) {
	svc, repo, provider := reconcileFixture()

	require.NoError(t, svc.Reconcile(context.Background(), "sub_1", "cus_1", false))
	assert.Empty(t, provider.updates)
	assert.Empty(t, repo.userBilling)
}

func TestReconcileSkipsIncompleteBillingDetails(t *testing.T) {
	svc, repo, provider := reconcileFixture()
	sub := remoteSub()
	sub.DefaultPaymentMethod.BillingDetails.Phone = ""
	provider.subscriptions["sub_1"] = sub

	require.NoError(t, svc.Reconcile(context.Background(), "sub_1", "cus_1", true))
	assert.Empty(t, provider.updates)
	assert.Empty(t, repo.userBilling)
	assert.Len(t, repo.subscriptions, 1)
}

func TestCurrentSubscription(t *testing.T) {
	svc, _, _ := reconcileFixture()
	ctx := context.Background()

	_, err := svc.CurrentSubscription(ctx, 7)
	assert.Error(t, err)

	require.NoError(t, svc.Reconcile(ctx, "sub_1", "cus_1", false))
	sub, err := svc.CurrentSubscription(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "sub_1", sub.ID)
}
