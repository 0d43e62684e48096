package controllers

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/ManuelReschke/SubFox/app/models"
	"github.com/ManuelReschke/SubFox/internal/pkg/billing"
	"github.com/ManuelReschke/SubFox/internal/pkg/constants"
	"github.com/ManuelReschke/SubFox/internal/pkg/usercontext"
)

// BillingService is the part of billing.Service the HTTP layer depends on.
type BillingService interface {
	HandleWebhook(ctx context.Context, payload []byte, sigHeader, secret string) (string, error)
	EnsureCustomer(ctx context.Context, userID uint, email string) (string, error)
	CreateCheckoutSession(ctx context.Context, in billing.CheckoutInput) (*billing.CheckoutSession, error)
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)
	CurrentSubscription(ctx context.Context, userID uint) (*models.Subscription, error)
	ListCatalog(ctx context.Context) ([]models.Product, error)
}

type BillingController struct {
	svc           BillingService
	webhookSecret string
	publicDomain  string
	validate      *validator.Validate
}

func NewBillingController(svc BillingService, webhookSecret, publicDomain string) *BillingController {
	return &BillingController{
		svc:           svc,
		webhookSecret: webhookSecret,
		publicDomain:  strings.TrimRight(publicDomain, "/"),
		validate:      validator.New(),
	}
}

type checkoutPrice struct {
	ID string `json:"id" validate:"required"`
}

type checkoutRequest struct {
	Price    *checkoutPrice    `json:"price" validate:"required"`
	Quantity int64             `json:"quantity" validate:"omitempty,min=1"`
	Metadata map[string]string `json:"metadata"`
}

// HandleWebhook receives signed provider events. The response never carries
// internal error detail.
func (bc *BillingController) HandleWebhook(c *fiber.Ctx) error {
	sig := c.Get(billing.SignatureHeader)

	outcome, err := bc.svc.HandleWebhook(c.UserContext(), c.Body(), sig, bc.webhookSecret)
	if err != nil {
		if errors.Is(err, billing.ErrSignatureInvalid) {
			log.Warnf("[Webhook] Signature verification failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Webhook Error"})
		}
		log.Errorf("[Webhook] Handler failed (%s): %v", outcome, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Webhook handler failed. View logs.",
		})
	}

	return c.JSON(fiber.Map{"received": true})
}

// HandleCreateCheckoutSession starts a subscription checkout for the signed-in user.
func (bc *BillingController) HandleCreateCheckoutSession(c *fiber.Ctx) error {
	user, err := usercontext.Authenticate(c)
	if err != nil {
		return unauthorized(c)
	}

	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := bc.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "price id is required"})
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	ctx := c.UserContext()
	customerID, err := bc.svc.EnsureCustomer(ctx, user.UserID, user.Email)
	if err != nil {
		log.Errorf("[Billing] Checkout for user %d: %v", user.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	session, err := bc.svc.CreateCheckoutSession(ctx, billing.CheckoutInput{
		CustomerID: customerID,
		PriceID:    req.Price.ID,
		Quantity:   req.Quantity,
		Metadata:   req.Metadata,
		SuccessURL: bc.publicDomain + constants.AccountRoute,
		CancelURL:  bc.publicDomain + constants.PricingRoute,
	})
	if err != nil {
		log.Errorf("[Billing] Checkout session for user %d: %v", user.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"sessionId": session.ID,
		"url":       session.URL,
	})
}

// HandleCreatePortalLink returns a billing portal URL for the signed-in user.
func (bc *BillingController) HandleCreatePortalLink(c *fiber.Ctx) error {
	user, err := usercontext.Authenticate(c)
	if err != nil {
		return unauthorized(c)
	}

	ctx := c.UserContext()
	customerID, err := bc.svc.EnsureCustomer(ctx, user.UserID, user.Email)
	if err != nil {
		log.Errorf("[Billing] Portal for user %d: %v", user.UserID, err)
		return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{"error": err.Error()})
	}

	url, err := bc.svc.CreatePortalSession(ctx, customerID, bc.publicDomain+constants.AccountRoute)
	if err != nil {
		log.Errorf("[Billing] Portal session for user %d: %v", user.UserID, err)
		return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"url": url})
}

// HandleGetSubscription returns the signed-in user's live subscription.
func (bc *BillingController) HandleGetSubscription(c *fiber.Ctx) error {
	user, err := usercontext.Authenticate(c)
	if err != nil {
		return unauthorized(c)
	}

	sub, err := bc.svc.CurrentSubscription(c.UserContext(), user.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "no active subscription"})
		}
		log.Errorf("[Billing] Subscription read for user %d: %v", user.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_error", "message": "could not load subscription"})
	}

	return c.JSON(sub)
}

// HandleListProducts returns the active catalog.
func (bc *BillingController) HandleListProducts(c *fiber.Ctx) error {
	products, err := bc.svc.ListCatalog(c.UserContext())
	if err != nil {
		log.Errorf("[Billing] List catalog: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_error", "message": "could not load products"})
	}
	return c.JSON(products)
}
