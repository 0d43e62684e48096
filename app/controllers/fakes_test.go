package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ManuelReschke/SubFox/app/models"
	"github.com/ManuelReschke/SubFox/app/repository"
	"github.com/ManuelReschke/SubFox/internal/pkg/billing"
	"github.com/ManuelReschke/SubFox/internal/pkg/usercontext"
)

type fakeBilling struct {
	outcome    string
	webhookErr error
	gotSig     string
	gotSecret  string
	gotPayload []byte

	customerID  string
	customerErr error

	checkoutIn  billing.CheckoutInput
	checkoutErr error

	portalReturnURL string
	portalErr       error

	sub    *models.Subscription
	subErr error

	products   []models.Product
	catalogErr error
}

func (f *fakeBilling) HandleWebhook(_ context.Context, payload []byte, sigHeader, secret string) (string, error) {
	f.gotPayload = payload
	f.gotSig = sigHeader
	f.gotSecret = secret
	return f.outcome, f.webhookErr
}

func (f *fakeBilling) EnsureCustomer(_ context.Context, _ uint, _ string) (string, error) {
	return f.customerID, f.customerErr
}

func (f *fakeBilling) CreateCheckoutSession(_ context.Context, in billing.CheckoutInput) (*billing.CheckoutSession, error) {
	f.checkoutIn = in
	if f.checkoutErr != nil {
		return nil, f.checkoutErr
	}
	return &billing.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.com/c/cs_test_1"}, nil
}

func (f *fakeBilling) CreatePortalSession(_ context.Context, _ string, returnURL string) (string, error) {
	f.portalReturnURL = returnURL
	if f.portalErr != nil {
		return "", f.portalErr
	}
	return "https://billing.stripe.com/p/session_1", nil
}

func (f *fakeBilling) CurrentSubscription(_ context.Context, _ uint) (*models.Subscription, error) {
	if f.subErr != nil {
		return nil, f.subErr
	}
	if f.sub == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.sub, nil
}

func (f *fakeBilling) ListCatalog(_ context.Context) ([]models.Product, error) {
	return f.products, f.catalogErr
}

type fakeAccounts struct {
	user *models.User
	err  error
	got  repository.ExternalIdentity
}

func (f *fakeAccounts) LinkIdentity(_ context.Context, id repository.ExternalIdentity) (*models.User, error) {
	f.got = id
	return f.user, f.err
}

type fakeUsers struct {
	touched uint
}

func (f *fakeUsers) Create(context.Context, *models.User) error { return nil }

func (f *fakeUsers) GetByID(context.Context, uint) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUsers) GetByEmail(context.Context, string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUsers) TouchLastLogin(_ context.Context, id uint, _ time.Time) error {
	f.touched = id
	return nil
}

// signedIn marks every request as coming from user 7.
func signedIn(c *fiber.Ctx) error {
	usercontext.SetUserContext(c, usercontext.UserContext{
		UserID:     7,
		Name:       "Ada",
		Email:      "ada@example.com",
		IsLoggedIn: true,
	})
	return c.Next()
}
