package billing

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/ManuelReschke/SubFox/app/models"
)

type userBilling struct {
	address string
	method  string
}

type fakeRepo struct {
	mu            sync.Mutex
	customers     map[uint]models.Customer
	products      map[string]models.Product
	prices        map[string]models.Price
	subscriptions map[string]models.Subscription
	userBilling   map[uint]userBilling
	events        map[string]*models.BillingWebhookEvent
	nextEventID   uint

	// beforeList runs at the start of ListActiveProductsWithPrices.
	beforeList func()

	productWrites int
	priceWrites   int
	subWrites     int

	failUpsert     error
	failCreateCust error
	createCustHook func()
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		customers:     map[uint]models.Customer{},
		products:      map[string]models.Product{},
		prices:        map[string]models.Price{},
		subscriptions: map[string]models.Subscription{},
		userBilling:   map[uint]userBilling{},
		events:        map[string]*models.BillingWebhookEvent{},
	}
}

func (r *fakeRepo) GetCustomerByUserID(_ context.Context, userID uint) (*models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r *fakeRepo) GetCustomerByStripeID(_ context.Context, stripeID string) (*models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.customers {
		if c.StripeCustomerID == stripeID {
			c := c
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) CreateCustomer(_ context.Context, c *models.Customer) error {
	if r.createCustHook != nil {
		r.createCustHook()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreateCust != nil {
		return r.failCreateCust
	}
	if _, ok := r.customers[c.ID]; ok {
		return gorm.ErrDuplicatedKey
	}
	r.customers[c.ID] = *c
	return nil
}

func (r *fakeRepo) UpsertProduct(_ context.Context, p *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpsert != nil {
		return r.failUpsert
	}
	r.productWrites++
	r.products[p.ID] = *p
	return nil
}

func (r *fakeRepo) UpsertPrice(_ context.Context, p *models.Price) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpsert != nil {
		return r.failUpsert
	}
	r.priceWrites++
	r.prices[p.ID] = *p
	return nil
}

func (r *fakeRepo) UpsertSubscription(_ context.Context, s *models.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpsert != nil {
		return r.failUpsert
	}
	r.subWrites++
	r.subscriptions[s.ID] = *s
	return nil
}

func (r *fakeRepo) GetLiveSubscriptionByUser(_ context.Context, userID uint) (*models.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.subscriptions {
		if s.UserID == userID && s.IsLive() {
			s := s
			return &s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) ListActiveProductsWithPrices(_ context.Context) ([]models.Product, error) {
	if r.beforeList != nil {
		r.beforeList()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Product
	for _, p := range r.products {
		if !p.Active {
			continue
		}
		for _, pr := range r.prices {
			if pr.ProductID == p.ID && pr.Active {
				p.Prices = append(p.Prices, pr)
			}
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeRepo) UpdateUserBilling(_ context.Context, userID uint, address, method string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userBilling[userID] = userBilling{address: address, method: method}
	return nil
}

func (r *fakeRepo) CreateWebhookEventIfNotExists(_ context.Context, e *models.BillingWebhookEvent) (bool, *models.BillingWebhookEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stored, ok := r.events[e.ProviderEventID]; ok {
		stored.Attempts++
		cp := *stored
		return false, &cp, nil
	}
	r.nextEventID++
	cp := *e
	cp.ID = r.nextEventID
	r.events[e.ProviderEventID] = &cp
	out := cp
	return true, &out, nil
}

func (r *fakeRepo) MarkWebhookProcessed(_ context.Context, id uint, processingError string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.ID == id {
			now := time.Now()
			e.ProcessedAt = &now
			e.ProcessingError = processingError
			return nil
		}
	}
	return errors.New("event not found")
}

type fakeProvider struct {
	mu sync.Mutex

	subscriptions map[string]*RemoteSubscription
	customerSeq   int
	createCalls   int
	updates       map[string]BillingDetails
	fetches       int

	products []ProductSnapshot
	prices   []PriceSnapshot

	failCreate error
	failFetch  error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		subscriptions: map[string]*RemoteSubscription{},
		updates:       map[string]BillingDetails{},
	}
}

func (p *fakeProvider) CreateCustomer(_ context.Context, userID uint, _ string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.createCalls++
	if p.failCreate != nil {
		return "", p.failCreate
	}
	p.customerSeq++
	return "cus_" + string(rune('a'+p.customerSeq-1)), nil
}

func (p *fakeProvider) UpdateCustomerBilling(_ context.Context, customerID string, d BillingDetails) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updates[customerID] = d
	return nil
}

func (p *fakeProvider) GetSubscription(_ context.Context, id string) (*RemoteSubscription, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fetches++
	if p.failFetch != nil {
		return nil, p.failFetch
	}
	s, ok := p.subscriptions[id]
	if !ok {
		return nil, errors.New("no such subscription")
	}
	cp := *s
	return &cp, nil
}

func (p *fakeProvider) CreateCheckoutSession(_ context.Context, in CheckoutInput) (*CheckoutSession, error) {
	return &CheckoutSession{ID: "cs_test", URL: "https://checkout.example/" + in.PriceID}, nil
}

func (p *fakeProvider) CreatePortalSession(_ context.Context, customerID, _ string) (string, error) {
	return "https://portal.example/" + customerID, nil
}

func (p *fakeProvider) ListProducts(_ context.Context, fn func(ProductSnapshot) error) error {
	for _, prod := range p.products {
		if err := fn(prod); err != nil {
			return err
		}
	}
	return nil
}

func (p *fakeProvider) ListPrices(_ context.Context, fn func(PriceSnapshot) error) error {
	for _, pr := range p.prices {
		if err := fn(pr); err != nil {
			return err
		}
	}
	return nil
}

type fakeCatalogCache struct {
	products    []models.Product
	hit         bool
	gen         int64
	invalidated int
	getErr      error
}

func (c *fakeCatalogCache) GetCatalog(context.Context) ([]models.Product, bool, error) {
	return c.products, c.hit, c.getErr
}

func (c *fakeCatalogCache) Generation(context.Context) (int64, error) {
	return c.gen, nil
}

func (c *fakeCatalogCache) SetCatalog(_ context.Context, gen int64, products []models.Product) error {
	if gen != c.gen {
		return nil
	}
	c.products = products
	c.hit = true
	return nil
}

func (c *fakeCatalogCache) Invalidate(context.Context) error {
	c.invalidated++
	c.gen++
	c.products = nil
	c.hit = false
	return nil
}

type fakeArchive struct {
	mu  sync.Mutex
	ids []string
}

func (a *fakeArchive) Archive(_ context.Context, eventID string, _ time.Time, _ []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ids = append(a.ids, eventID)
	return nil
}

func ptr[T any](v T) *T {
	return &v
}
