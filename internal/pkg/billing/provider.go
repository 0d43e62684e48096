package billing

import "context"

// Provider is the external billing system of record.
type Provider interface {
	CreateCustomer(ctx context.Context, userID uint, email string) (string, error)
	UpdateCustomerBilling(ctx context.Context, customerID string, details BillingDetails) error
	GetSubscription(ctx context.Context, subscriptionID string) (*RemoteSubscription, error)
	CreateCheckoutSession(ctx context.Context, in CheckoutInput) (*CheckoutSession, error)
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)
	ListProducts(ctx context.Context, fn func(ProductSnapshot) error) error
	ListPrices(ctx context.Context, fn func(PriceSnapshot) error) error
}
