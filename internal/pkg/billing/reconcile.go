package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/ManuelReschke/SubFox/app/models"
	"github.com/ManuelReschke/SubFox/internal/pkg/entitlements"
)

// SubscriptionRow builds the full mirror row for a fetched subscription. Only
// the first line item is considered.
func SubscriptionRow(userID uint, remote *RemoteSubscription) (*models.Subscription, error) {
	if len(remote.Items) == 0 {
		return nil, fmt.Errorf("%w: subscription %s has no items", ErrFetchFailed, remote.ID)
	}
	item := remote.Items[0]

	return &models.Subscription{
		ID:                 remote.ID,
		UserID:             userID,
		Status:             normalizeStatus(remote.Status),
		Metadata:           metadataOf(remote.Metadata),
		PriceID:            item.PriceID,
		Quantity:           item.Quantity,
		CancelAtPeriodEnd:  remote.CancelAtPeriodEnd,
		Created:            epochTime(remote.Created),
		CurrentPeriodStart: epochTime(item.CurrentPeriodStart),
		CurrentPeriodEnd:   epochTime(item.CurrentPeriodEnd),
		EndedAt:            optionalEpoch(remote.EndedAt),
		CancelAt:           optionalEpoch(remote.CancelAt),
		CanceledAt:         optionalEpoch(remote.CanceledAt),
		TrialStart:         optionalEpoch(remote.TrialStart),
		TrialEnd:           optionalEpoch(remote.TrialEnd),
		NoteLimit:          entitlements.DefaultNoteLimit,
	}, nil
}

// Reconcile pulls the subscription from the provider and overwrites the local
// mirror. For new subscriptions the payment method's billing details are
// copied to the customer.
func (s *Service) Reconcile(ctx context.Context, subscriptionID, customerID string, isNew bool) (err error) {
	defer func() { s.metrics.reconciliation(err) }()

	cust, err := s.repo.GetCustomerByStripeID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Errorf("[Billing] No customer for %s (subscription %s)", customerID, subscriptionID)
			return fmt.Errorf("%w: %s", ErrUnknownCustomer, customerID)
		}
		return fmt.Errorf("%w: lookup customer %s: %w", ErrSyncFailed, customerID, err)
	}

	remote, err := s.provider.GetSubscription(ctx, subscriptionID)
	if err != nil {
		log.Errorf("[Billing] Fetch subscription %s failed: %v", subscriptionID, err)
		return fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	row, err := SubscriptionRow(cust.ID, remote)
	if err != nil {
		return err
	}
	if err := s.repo.UpsertSubscription(ctx, row); err != nil {
		log.Errorf("[Billing] Upsert subscription %s failed: %v", subscriptionID, err)
		return fmt.Errorf("%w: subscription %s: %w", ErrSyncFailed, subscriptionID, err)
	}
	log.Infof("[Billing] Inserted/updated subscription [%s] for user [%d]", row.ID, cust.ID)

	if isNew && remote.DefaultPaymentMethod != nil {
		return s.copyBillingDetails(ctx, cust, remote.DefaultPaymentMethod)
	}
	return nil
}

// copyBillingDetails pushes name, phone and address to the provider customer
// and stores address and payment method on the user. Incomplete details are
// skipped without error.
func (s *Service) copyBillingDetails(ctx context.Context, cust *models.Customer, pm *PaymentMethod) error {
	details := pm.BillingDetails
	if !details.Complete() {
		return nil
	}

	if err := s.provider.UpdateCustomerBilling(ctx, cust.StripeCustomerID, details); err != nil {
		return fmt.Errorf("%w: %w", ErrSyncFailed, err)
	}

	addr, err := json.Marshal(details.Address)
	if err != nil {
		return fmt.Errorf("%w: encode billing address: %w", ErrSyncFailed, err)
	}
	method, err := json.Marshal(pm.Details)
	if err != nil {
		return fmt.Errorf("%w: encode payment method: %w", ErrSyncFailed, err)
	}
	if err := s.repo.UpdateUserBilling(ctx, cust.ID, string(addr), string(method)); err != nil {
		return fmt.Errorf("%w: update user %d billing: %w", ErrSyncFailed, cust.ID, err)
	}
	log.Infof("[Billing] Copied billing details to customer %s", cust.StripeCustomerID)
	return nil
}

// CurrentSubscription returns the user's trialing or active subscription with
// price and product, or gorm.ErrRecordNotFound.
func (s *Service) CurrentSubscription(ctx context.Context, userID uint) (*models.Subscription, error) {
	return s.repo.GetLiveSubscriptionByUser(ctx, userID)
}
