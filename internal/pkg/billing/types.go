package billing

// ProductSnapshot is a provider product as pushed in an event or listed by the API.
type ProductSnapshot struct {
	ID          string
	Active      bool
	Name        string
	Description *string
	Image       *string
	Metadata    map[string]string
}

// PriceSnapshot is a provider price. UnitAmount and Recurring are nil when
// the provider sent null.
type PriceSnapshot struct {
	ID          string
	ProductID   string
	Active      bool
	Currency    string
	Description *string
	Type        string
	UnitAmount  *int64
	Recurring   *Recurring
	Metadata    map[string]string
}

type Recurring struct {
	Interval        string
	IntervalCount   *int64
	TrialPeriodDays *int64
}

// RemoteSubscription is the authoritative subscription state fetched from the
// provider. Epoch fields are unix seconds; zero means absent.
type RemoteSubscription struct {
	ID                   string
	CustomerID           string
	Status               string
	Metadata             map[string]string
	Items                []SubscriptionItem
	CancelAtPeriodEnd    bool
	Created              int64
	CancelAt             int64
	CanceledAt           int64
	EndedAt              int64
	TrialStart           int64
	TrialEnd             int64
	DefaultPaymentMethod *PaymentMethod
}

// SubscriptionItem carries the price and the billing period. The provider
// reports periods per item.
type SubscriptionItem struct {
	PriceID            string
	Quantity           int64
	CurrentPeriodStart int64
	CurrentPeriodEnd   int64
}

type PaymentMethod struct {
	ID             string
	Type           string
	BillingDetails BillingDetails
	// Details is the type-specific part of the payment method, e.g. card brand and last4.
	Details map[string]string
}

type BillingDetails struct {
	Name    string
	Phone   string
	Address *Address
}

type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Complete reports whether name, phone and address are all present.
func (d BillingDetails) Complete() bool {
	return d.Name != "" && d.Phone != "" && d.Address != nil
}

// CheckoutInput is what the checkout endpoint hands to the provider.
type CheckoutInput struct {
	CustomerID string
	PriceID    string
	Quantity   int64
	Metadata   map[string]string
	SuccessURL string
	CancelURL  string
}

type CheckoutSession struct {
	ID  string
	URL string
}
