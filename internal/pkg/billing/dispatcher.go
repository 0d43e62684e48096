package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/SubFox/app/models"
)

const checkoutModeSubscription = "subscription"

// HandleWebhook verifies a raw event, records it in the ledger and routes it.
// It returns the outcome label and, for rejected or failed events, the cause.
// Redeliveries of an event that already succeeded are not routed again.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, sigHeader, secret string) (string, error) {
	evt, err := VerifyEvent(payload, sigHeader, secret)
	if err != nil {
		outcome := OutcomeFailed
		if errors.Is(err, ErrSignatureInvalid) {
			outcome = OutcomeRejected
		}
		s.metrics.webhookEvent("", outcome)
		return outcome, err
	}

	s.archiveEvent(ctx, evt)

	if evt.Payload == nil {
		s.metrics.webhookEvent(evt.Type, OutcomeIgnored)
		return OutcomeIgnored, nil
	}

	created, entry, err := s.repo.CreateWebhookEventIfNotExists(ctx, &models.BillingWebhookEvent{
		ProviderEventID: evt.ID,
		EventType:       evt.Type,
		PayloadJSON:     string(evt.Raw),
		Attempts:        1,
	})
	if err != nil {
		s.metrics.webhookEvent(evt.Type, OutcomeFailed)
		return OutcomeFailed, fmt.Errorf("%w: record event %s: %w", ErrSyncFailed, evt.ID, err)
	}
	if !created && entry.Succeeded() {
		log.Infof("[Webhook] Event %s (%s) already processed", evt.ID, evt.Type)
		s.metrics.webhookEvent(evt.Type, OutcomeDuplicate)
		return OutcomeDuplicate, nil
	}

	procErr := s.Dispatch(ctx, evt)

	msg := ""
	if procErr != nil {
		msg = procErr.Error()
	}
	if err := s.repo.MarkWebhookProcessed(ctx, entry.ID, msg); err != nil {
		log.Warnf("[Webhook] Mark event %s processed failed: %v", evt.ID, err)
	}

	if procErr != nil {
		log.Errorf("[Webhook] Event %s (%s) failed [%s]: %v", evt.ID, evt.Type, errorKind(procErr), procErr)
		s.metrics.webhookEvent(evt.Type, OutcomeFailed)
		return OutcomeFailed, procErr
	}
	s.metrics.webhookEvent(evt.Type, OutcomeProcessed)
	return OutcomeProcessed, nil
}

// Dispatch routes a decoded event to catalog sync or the reconciler.
func (s *Service) Dispatch(ctx context.Context, evt *Event) error {
	switch p := evt.Payload.(type) {
	case ProductChanged:
		return s.UpsertProduct(ctx, p.Product)
	case PriceChanged:
		return s.UpsertPrice(ctx, p.Price)
	case SubscriptionChanged:
		return s.Reconcile(ctx, p.SubscriptionID, p.CustomerID, p.IsNew)
	case CheckoutCompleted:
		if p.Mode != checkoutModeSubscription {
			return nil
		}
		return s.Reconcile(ctx, p.SubscriptionID, p.CustomerID, true)
	default:
		return fmt.Errorf("%w: %s", ErrUnhandledEventType, evt.Type)
	}
}

func (s *Service) archiveEvent(ctx context.Context, evt *Event) {
	if s.archive == nil {
		return
	}
	if err := s.archive.Archive(ctx, evt.ID, s.now(), evt.Raw); err != nil {
		log.Warnf("[Webhook] Archive event %s failed: %v", evt.ID, err)
	}
}
