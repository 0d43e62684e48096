package billing

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ManuelReschke/SubFox/app/models"
)

// Repository provides DB operations used by the billing service.
type Repository interface {
	GetCustomerByUserID(ctx context.Context, userID uint) (*models.Customer, error)
	GetCustomerByStripeID(ctx context.Context, stripeCustomerID string) (*models.Customer, error)
	CreateCustomer(ctx context.Context, customer *models.Customer) error
	UpsertProduct(ctx context.Context, product *models.Product) error
	UpsertPrice(ctx context.Context, price *models.Price) error
	UpsertSubscription(ctx context.Context, sub *models.Subscription) error
	GetLiveSubscriptionByUser(ctx context.Context, userID uint) (*models.Subscription, error)
	ListActiveProductsWithPrices(ctx context.Context) ([]models.Product, error)
	UpdateUserBilling(ctx context.Context, userID uint, billingAddressJSON, paymentMethodJSON string) error
	CreateWebhookEventIfNotExists(ctx context.Context, event *models.BillingWebhookEvent) (bool, *models.BillingWebhookEvent, error)
	MarkWebhookProcessed(ctx context.Context, id uint, processingError string) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a billing repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetCustomerByUserID(ctx context.Context, userID uint) (*models.Customer, error) {
	var c models.Customer
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *gormRepository) GetCustomerByStripeID(ctx context.Context, stripeCustomerID string) (*models.Customer, error) {
	var c models.Customer
	if err := r.db.WithContext(ctx).Where("stripe_customer_id = ?", stripeCustomerID).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCustomer inserts the link row. A concurrent insert for the same user
// surfaces as gorm.ErrDuplicatedKey.
func (r *gormRepository) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *gormRepository) UpsertProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"active",
			"name",
			"description",
			"image",
			"metadata",
			"updated_at",
		}),
	}).Create(product).Error
}

func (r *gormRepository) UpsertPrice(ctx context.Context, price *models.Price) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"product_id",
			"active",
			"description",
			"unit_amount",
			"currency",
			"type",
			"interval",
			"interval_count",
			"trial_period_days",
			"metadata",
			"updated_at",
		}),
	}).Create(price).Error
}

func (r *gormRepository) UpsertSubscription(ctx context.Context, sub *models.Subscription) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"user_id",
			"status",
			"metadata",
			"price_id",
			"quantity",
			"cancel_at_period_end",
			"created",
			"current_period_start",
			"current_period_end",
			"ended_at",
			"cancel_at",
			"canceled_at",
			"trial_start",
			"trial_end",
			"note_limit",
		}),
	}).Create(sub).Error
}

// GetLiveSubscriptionByUser returns the user's trialing or active subscription
// with its price and product.
func (r *gormRepository) GetLiveSubscriptionByUser(ctx context.Context, userID uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.WithContext(ctx).
		Preload("Price.Product").
		Where("user_id = ? AND status IN ?", userID, []string{
			models.SubscriptionStatusTrialing,
			models.SubscriptionStatusActive,
		}).
		Order("created DESC").
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *gormRepository) ListActiveProductsWithPrices(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Preload("Prices", func(db *gorm.DB) *gorm.DB {
			return db.Where("active = ?", true).Order("unit_amount ASC")
		}).
		Where("active = ?", true).
		Order("name ASC").
		Find(&products).Error
	return products, err
}

func (r *gormRepository) UpdateUserBilling(ctx context.Context, userID uint, billingAddressJSON, paymentMethodJSON string) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"billing_address": billingAddressJSON,
		"payment_method":  paymentMethodJSON,
	}).Error
}

func (r *gormRepository) CreateWebhookEventIfNotExists(ctx context.Context, event *models.BillingWebhookEvent) (bool, *models.BillingWebhookEvent, error) {
	db := r.db.WithContext(ctx)
	tx := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider_event_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"attempts": gorm.Expr("attempts + 1")}),
	}).Create(event)
	if tx.Error != nil {
		return false, nil, tx.Error
	}

	var stored models.BillingWebhookEvent
	if err := db.Where("provider_event_id = ?", event.ProviderEventID).First(&stored).Error; err != nil {
		return false, nil, err
	}
	return stored.Attempts == 1, &stored, nil
}

func (r *gormRepository) MarkWebhookProcessed(ctx context.Context, id uint, processingError string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"processed_at":     &now,
		"processing_error": processingError,
	}
	return r.db.WithContext(ctx).Model(&models.BillingWebhookEvent{}).Where("id = ?", id).Updates(updates).Error
}
