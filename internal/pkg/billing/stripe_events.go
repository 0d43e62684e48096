package billing

import (
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

const SignatureHeader = "Stripe-Signature"

const (
	EventProductCreated       = "product.created"
	EventProductUpdated       = "product.updated"
	EventPriceCreated         = "price.created"
	EventPriceUpdated         = "price.updated"
	EventSubscriptionCreated  = "customer.subscription.created"
	EventSubscriptionUpdated  = "customer.subscription.updated"
	EventSubscriptionDeleted  = "customer.subscription.deleted"
	EventCheckoutSessionEnded = "checkout.session.completed"
)

var relevantEvents = map[string]struct{}{
	EventProductCreated:       {},
	EventProductUpdated:       {},
	EventPriceCreated:         {},
	EventPriceUpdated:         {},
	EventSubscriptionCreated:  {},
	EventSubscriptionUpdated:  {},
	EventSubscriptionDeleted:  {},
	EventCheckoutSessionEnded: {},
}

// IsRelevantEvent reports whether the dispatcher acts on an event type.
func IsRelevantEvent(eventType string) bool {
	_, ok := relevantEvents[eventType]
	return ok
}

// Event is a verified provider event. Payload is nil for event types outside
// the relevant set.
type Event struct {
	ID      string
	Type    string
	Raw     []byte
	Payload EventPayload
}

// EventPayload is implemented by the typed payload of each relevant event.
type EventPayload interface {
	eventPayload()
}

type ProductChanged struct {
	Product ProductSnapshot
}

type PriceChanged struct {
	Price PriceSnapshot
}

type SubscriptionChanged struct {
	SubscriptionID string
	CustomerID     string
	IsNew          bool
}

type CheckoutCompleted struct {
	Mode           string
	SubscriptionID string
	CustomerID     string
}

func (ProductChanged) eventPayload()      {}
func (PriceChanged) eventPayload()        {}
func (SubscriptionChanged) eventPayload() {}
func (CheckoutCompleted) eventPayload()   {}

// VerifyEvent checks the signature header against secret and decodes the
// payload of relevant events. A missing header or secret fails verification.
func VerifyEvent(payload []byte, sigHeader, secret string) (*Event, error) {
	if sigHeader == "" || secret == "" {
		return nil, fmt.Errorf("%w: missing signature header or secret", ErrSignatureInvalid)
	}
	evt, err := webhook.ConstructEventWithOptions(payload, sigHeader, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}
	return decodeEvent(evt, payload)
}

func decodeEvent(evt stripe.Event, payload []byte) (*Event, error) {
	out := &Event{ID: evt.ID, Type: string(evt.Type), Raw: payload}
	if !IsRelevantEvent(out.Type) {
		return out, nil
	}
	if evt.Data == nil {
		return nil, fmt.Errorf("decode %s: missing data object", out.Type)
	}
	raw := evt.Data.Raw

	switch out.Type {
	case EventProductCreated, EventProductUpdated:
		var prod stripe.Product
		if err := json.Unmarshal(raw, &prod); err != nil {
			return nil, fmt.Errorf("decode %s: %w", out.Type, err)
		}
		out.Payload = ProductChanged{Product: productFromStripe(&prod)}

	case EventPriceCreated, EventPriceUpdated:
		snap, err := decodePriceObject(raw)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", out.Type, err)
		}
		out.Payload = PriceChanged{Price: snap}

	case EventSubscriptionCreated, EventSubscriptionUpdated, EventSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(raw, &sub); err != nil {
			return nil, fmt.Errorf("decode %s: %w", out.Type, err)
		}
		p := SubscriptionChanged{
			SubscriptionID: sub.ID,
			IsNew:          out.Type == EventSubscriptionCreated,
		}
		if sub.Customer != nil {
			p.CustomerID = sub.Customer.ID
		}
		out.Payload = p

	case EventCheckoutSessionEnded:
		var cs stripe.CheckoutSession
		if err := json.Unmarshal(raw, &cs); err != nil {
			return nil, fmt.Errorf("decode %s: %w", out.Type, err)
		}
		p := CheckoutCompleted{Mode: string(cs.Mode)}
		if cs.Subscription != nil {
			p.SubscriptionID = cs.Subscription.ID
		}
		if cs.Customer != nil {
			p.CustomerID = cs.Customer.ID
		}
		out.Payload = p
	}
	return out, nil
}

// priceObject mirrors the price JSON closely enough to tell a null
// unit_amount or recurring apart from a zero value.
type priceObject struct {
	ID         string            `json:"id"`
	Product    *stripe.Product   `json:"product"`
	Active     bool              `json:"active"`
	Currency   string            `json:"currency"`
	Nickname   *string           `json:"nickname"`
	Type       string            `json:"type"`
	UnitAmount *int64            `json:"unit_amount"`
	Metadata   map[string]string `json:"metadata"`
	Recurring  *struct {
		Interval        string `json:"interval"`
		IntervalCount   *int64 `json:"interval_count"`
		TrialPeriodDays *int64 `json:"trial_period_days"`
	} `json:"recurring"`
}

func decodePriceObject(raw []byte) (PriceSnapshot, error) {
	var po priceObject
	if err := json.Unmarshal(raw, &po); err != nil {
		return PriceSnapshot{}, err
	}
	if po.ID == "" {
		return PriceSnapshot{}, fmt.Errorf("price object without id")
	}
	out := PriceSnapshot{
		ID:          po.ID,
		Active:      po.Active,
		Currency:    po.Currency,
		Description: po.Nickname,
		Type:        po.Type,
		UnitAmount:  po.UnitAmount,
		Metadata:    po.Metadata,
	}
	if po.Product != nil {
		out.ProductID = po.Product.ID
	}
	if r := po.Recurring; r != nil {
		out.Recurring = &Recurring{
			Interval:        r.Interval,
			IntervalCount:   r.IntervalCount,
			TrialPeriodDays: r.TrialPeriodDays,
		}
	}
	return out, nil
}
