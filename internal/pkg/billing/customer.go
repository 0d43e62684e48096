package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/ManuelReschke/SubFox/app/models"
)

// EnsureCustomer returns the provider customer id for a user, creating the
// provider customer and the local link on first use.
func (s *Service) EnsureCustomer(ctx context.Context, userID uint, email string) (string, error) {
	c, err := s.repo.GetCustomerByUserID(ctx, userID)
	if err == nil {
		return c.StripeCustomerID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("%w: lookup customer for user %d: %w", ErrCreateCustomerFailed, userID, err)
	}

	stripeID, err := s.provider.CreateCustomer(ctx, userID, email)
	if err != nil {
		log.Errorf("[Billing] Create customer for user %d failed: %v", userID, err)
		return "", fmt.Errorf("%w: %w", ErrCreateCustomerFailed, err)
	}

	row := &models.Customer{ID: userID, StripeCustomerID: stripeID}
	if err := s.repo.CreateCustomer(ctx, row); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A concurrent request linked this user first.
			winner, gerr := s.repo.GetCustomerByUserID(ctx, userID)
			if gerr != nil {
				log.Errorf("[Billing] Re-read customer for user %d failed: %v", userID, gerr)
				return "", fmt.Errorf("%w: re-read customer after duplicate link: %w", ErrCreateCustomerFailed, gerr)
			}
			if winner.StripeCustomerID != stripeID {
				log.Warnf("[Billing] User %d already linked to %s, discarding %s", userID, winner.StripeCustomerID, stripeID)
			}
			return winner.StripeCustomerID, nil
		}
		log.Errorf("[Billing] Persist customer for user %d failed: %v", userID, err)
		return "", fmt.Errorf("%w: persist customer: %w", ErrCreateCustomerFailed, err)
	}

	log.Infof("[Billing] Linked user %d to customer %s", userID, stripeID)
	return stripeID, nil
}
