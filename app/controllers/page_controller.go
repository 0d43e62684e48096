package controllers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/ManuelReschke/SubFox/app/models"
	"github.com/ManuelReschke/SubFox/internal/pkg/constants"
	"github.com/ManuelReschke/SubFox/internal/pkg/usercontext"
	"github.com/ManuelReschke/SubFox/internal/pkg/viewmodel"
)

// CatalogReader is what the pages need from billing.Service.
type CatalogReader interface {
	ListCatalog(ctx context.Context) ([]models.Product, error)
	CurrentSubscription(ctx context.Context, userID uint) (*models.Subscription, error)
}

type PageController struct {
	billing CatalogReader
}

func NewPageController(billing CatalogReader) *PageController {
	return &PageController{billing: billing}
}

// HandlePricing renders the product catalog for the selected interval.
func (pc *PageController) HandlePricing(c *fiber.Ctx) error {
	ctx := c.UserContext()

	products, err := pc.billing.ListCatalog(ctx)
	if err != nil {
		log.Errorf("[Page] Pricing catalog: %v", err)
		return pc.renderError(c, fiber.StatusInternalServerError, "Pricing is currently unavailable.")
	}

	sub, err := pc.currentSubscription(ctx, c)
	if err != nil {
		log.Errorf("[Page] Pricing subscription: %v", err)
		return pc.renderError(c, fiber.StatusInternalServerError, "Pricing is currently unavailable.")
	}

	page := viewmodel.NewPricingPage(layoutFor(c, "pricing", "Pricing"), products, c.Query("interval"), sub)
	return c.Render("pricing", page, "layouts/main")
}

// HandleAccount renders the signed-in user's plan and profile.
func (pc *PageController) HandleAccount(c *fiber.Ctx) error {
	user, err := usercontext.Authenticate(c)
	if err != nil {
		return c.Redirect(constants.LoginRoute, fiber.StatusSeeOther)
	}

	sub, err := pc.currentSubscription(c.UserContext(), c)
	if err != nil {
		log.Errorf("[Page] Account subscription for user %d: %v", user.UserID, err)
		return pc.renderError(c, fiber.StatusInternalServerError, "Your account could not be loaded.")
	}

	page := viewmodel.NewAccountPage(layoutFor(c, "account", "Account"), user.Name, user.Email, sub)
	return c.Render("account", page, "layouts/main")
}

// HandleNotFound is the fallback for unknown routes.
func (pc *PageController) HandleNotFound(c *fiber.Ctx) error {
	return pc.renderError(c, fiber.StatusNotFound, "Page not found.")
}

// currentSubscription returns nil for anonymous users and users without a
// live subscription.
func (pc *PageController) currentSubscription(ctx context.Context, c *fiber.Ctx) (*models.Subscription, error) {
	user, err := usercontext.Authenticate(c)
	if err != nil {
		return nil, nil
	}
	sub, err := pc.billing.CurrentSubscription(ctx, user.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return sub, err
}

func (pc *PageController) renderError(c *fiber.Ctx, code int, msg string) error {
	page := viewmodel.ErrorPage{
		Layout:  layoutFor(c, "error", "Error"),
		Code:    code,
		Message: msg,
	}
	return c.Status(code).Render("error", page, "layouts/main")
}
