package billing

import (
	"context"
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

const listPageSize = 100

// StripeProvider implements Provider with a per-process Stripe API client.
type StripeProvider struct {
	sc *client.API
}

// NewStripeProvider creates a provider bound to its own API client. No global
// stripe.Key is set.
func NewStripeProvider(apiKey string) *StripeProvider {
	return &StripeProvider{sc: client.New(apiKey, nil)}
}

// CreateCustomer creates a Stripe customer correlated with the internal user.
// The idempotency key makes concurrent first calls for one user return the
// same customer.
func (p *StripeProvider) CreateCustomer(ctx context.Context, userID uint, email string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
	}
	params.Context = ctx
	params.AddMetadata("user_id", strconv.FormatUint(uint64(userID), 10))
	params.SetIdempotencyKey(fmt.Sprintf("customer-create-user-%d", userID))

	c, err := p.sc.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("create stripe customer: %w", err)
	}
	return c.ID, nil
}

func (p *StripeProvider) UpdateCustomerBilling(ctx context.Context, customerID string, details BillingDetails) error {
	params := &stripe.CustomerParams{
		Name:  stripe.String(details.Name),
		Phone: stripe.String(details.Phone),
	}
	if a := details.Address; a != nil {
		params.Address = &stripe.AddressParams{
			Line1:      stripe.String(a.Line1),
			Line2:      stripe.String(a.Line2),
			City:       stripe.String(a.City),
			State:      stripe.String(a.State),
			PostalCode: stripe.String(a.PostalCode),
			Country:    stripe.String(a.Country),
		}
	}
	params.Context = ctx

	if _, err := p.sc.Customers.Update(customerID, params); err != nil {
		return fmt.Errorf("update stripe customer %s: %w", customerID, err)
	}
	return nil
}

// GetSubscription retrieves a subscription with its default payment method expanded.
func (p *StripeProvider) GetSubscription(ctx context.Context, subscriptionID string) (*RemoteSubscription, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx
	params.AddExpand("default_payment_method")

	sub, err := p.sc.Subscriptions.Get(subscriptionID, params)
	if err != nil {
		return nil, fmt.Errorf("get stripe subscription %s: %w", subscriptionID, err)
	}
	return subscriptionFromStripe(sub), nil
}

func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, in CheckoutInput) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:                     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer:                 stripe.String(in.CustomerID),
		PaymentMethodTypes:       stripe.StringSlice([]string{"card"}),
		BillingAddressCollection: stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionRequired)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(in.PriceID),
				Quantity: stripe.Int64(in.Quantity),
			},
		},
		AllowPromotionCodes: stripe.Bool(true),
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: in.Metadata,
		},
		SuccessURL: stripe.String(in.SuccessURL),
		CancelURL:  stripe.String(in.CancelURL),
	}
	params.Context = ctx

	s, err := p.sc.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create stripe checkout session: %w", err)
	}
	return &CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

func (p *StripeProvider) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	}
	params.Context = ctx

	s, err := p.sc.BillingPortalSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create stripe portal session: %w", err)
	}
	return s.URL, nil
}

// ListProducts pages through every product in the account.
func (p *StripeProvider) ListProducts(ctx context.Context, fn func(ProductSnapshot) error) error {
	params := &stripe.ProductListParams{}
	params.Context = ctx
	params.Limit = stripe.Int64(listPageSize)

	it := p.sc.Products.List(params)
	for it.Next() {
		if err := fn(productFromStripe(it.Product())); err != nil {
			return err
		}
	}
	if err := it.Err(); err != nil {
		return fmt.Errorf("list stripe products: %w", err)
	}
	return nil
}

// ListPrices pages through every price in the account.
func (p *StripeProvider) ListPrices(ctx context.Context, fn func(PriceSnapshot) error) error {
	params := &stripe.PriceListParams{}
	params.Context = ctx
	params.Limit = stripe.Int64(listPageSize)

	it := p.sc.Prices.List(params)
	for it.Next() {
		if err := fn(priceFromStripe(it.Price())); err != nil {
			return err
		}
	}
	if err := it.Err(); err != nil {
		return fmt.Errorf("list stripe prices: %w", err)
	}
	return nil
}

func productFromStripe(prod *stripe.Product) ProductSnapshot {
	out := ProductSnapshot{
		ID:       prod.ID,
		Active:   prod.Active,
		Name:     prod.Name,
		Metadata: prod.Metadata,
	}
	if prod.Description != "" {
		d := prod.Description
		out.Description = &d
	}
	if len(prod.Images) > 0 {
		img := prod.Images[0]
		out.Image = &img
	}
	return out
}

// priceFromStripe converts a listed price. The SDK decodes a null unit_amount
// as 0, so tiered and customer-chosen prices are the ones reported as null.
func priceFromStripe(pr *stripe.Price) PriceSnapshot {
	out := PriceSnapshot{
		ID:       pr.ID,
		Active:   pr.Active,
		Currency: string(pr.Currency),
		Type:     string(pr.Type),
		Metadata: pr.Metadata,
	}
	if pr.Product != nil {
		out.ProductID = pr.Product.ID
	}
	if pr.Nickname != "" {
		n := pr.Nickname
		out.Description = &n
	}
	if pr.BillingScheme != stripe.PriceBillingSchemeTiered && pr.CustomUnitAmount == nil {
		amount := pr.UnitAmount
		out.UnitAmount = &amount
	}
	if r := pr.Recurring; r != nil {
		count := r.IntervalCount
		rec := &Recurring{
			Interval:      string(r.Interval),
			IntervalCount: &count,
		}
		if r.TrialPeriodDays > 0 {
			days := r.TrialPeriodDays
			rec.TrialPeriodDays = &days
		}
		out.Recurring = rec
	}
	return out
}

func subscriptionFromStripe(sub *stripe.Subscription) *RemoteSubscription {
	out := &RemoteSubscription{
		ID:                sub.ID,
		Status:            string(sub.Status),
		Metadata:          sub.Metadata,
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
		Created:           sub.Created,
		CancelAt:          sub.CancelAt,
		CanceledAt:        sub.CanceledAt,
		EndedAt:           sub.EndedAt,
		TrialStart:        sub.TrialStart,
		TrialEnd:          sub.TrialEnd,
	}
	if sub.Customer != nil {
		out.CustomerID = sub.Customer.ID
	}
	if sub.Items != nil {
		for _, it := range sub.Items.Data {
			item := SubscriptionItem{
				Quantity:           it.Quantity,
				CurrentPeriodStart: it.CurrentPeriodStart,
				CurrentPeriodEnd:   it.CurrentPeriodEnd,
			}
			if it.Price != nil {
				item.PriceID = it.Price.ID
			}
			out.Items = append(out.Items, item)
		}
	}
	if pm := sub.DefaultPaymentMethod; pm != nil {
		out.DefaultPaymentMethod = paymentMethodFromStripe(pm)
	}
	return out
}

func paymentMethodFromStripe(pm *stripe.PaymentMethod) *PaymentMethod {
	out := &PaymentMethod{
		ID:      pm.ID,
		Type:    string(pm.Type),
		Details: map[string]string{},
	}
	if bd := pm.BillingDetails; bd != nil {
		out.BillingDetails.Name = bd.Name
		out.BillingDetails.Phone = bd.Phone
		if a := bd.Address; a != nil {
			out.BillingDetails.Address = &Address{
				Line1:      a.Line1,
				Line2:      a.Line2,
				City:       a.City,
				State:      a.State,
				PostalCode: a.PostalCode,
				Country:    a.Country,
			}
		}
	}
	switch {
	case pm.Card != nil:
		out.Details["brand"] = string(pm.Card.Brand)
		out.Details["last4"] = pm.Card.Last4
		out.Details["exp_month"] = strconv.FormatInt(pm.Card.ExpMonth, 10)
		out.Details["exp_year"] = strconv.FormatInt(pm.Card.ExpYear, 10)
		out.Details["country"] = pm.Card.Country
	case pm.SEPADebit != nil:
		out.Details["bank_code"] = pm.SEPADebit.BankCode
		out.Details["country"] = pm.SEPADebit.Country
		out.Details["last4"] = pm.SEPADebit.Last4
	}
	return out
}
