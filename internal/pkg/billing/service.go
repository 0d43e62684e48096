package billing

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/ManuelReschke/SubFox/app/models"
)

// CatalogCache caches the active product listing. SetCatalog must discard
// the listing when an Invalidate happened after Generation returned gen.
type CatalogCache interface {
	GetCatalog(ctx context.Context) ([]models.Product, bool, error)
	Generation(ctx context.Context) (int64, error)
	SetCatalog(ctx context.Context, gen int64, products []models.Product) error
	Invalidate(ctx context.Context) error
}

// EventArchiver stores raw verified webhook payloads.
type EventArchiver interface {
	Archive(ctx context.Context, eventID string, receivedAt time.Time, payload []byte) error
}

// Service links customers, mirrors the catalog and reconciles subscriptions.
// Cache, archive and metrics are optional.
type Service struct {
	repo     Repository
	provider Provider
	catalog  CatalogCache
	archive  EventArchiver
	metrics  *Metrics
	now      func() time.Time
}

type Option func(*Service)

func WithCatalogCache(c CatalogCache) Option {
	return func(s *Service) { s.catalog = c }
}

func WithEventArchive(a EventArchiver) Option {
	return func(s *Service) { s.archive = a }
}

func WithMetrics(m *Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService creates a billing service from an injected repository and provider.
func NewService(repo Repository, provider Provider, opts ...Option) *Service {
	s := &Service{repo: repo, provider: provider, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewServiceFromDB creates a billing service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, provider Provider, opts ...Option) *Service {
	return NewService(NewRepository(db), provider, opts...)
}

// CreateCheckoutSession starts a hosted checkout for a subscription.
func (s *Service) CreateCheckoutSession(ctx context.Context, in CheckoutInput) (*CheckoutSession, error) {
	return s.provider.CreateCheckoutSession(ctx, in)
}

// CreatePortalSession returns a billing portal URL for the customer.
func (s *Service) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	return s.provider.CreatePortalSession(ctx, customerID, returnURL)
}
