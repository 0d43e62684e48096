package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ManuelReschke/SubFox/app/controllers"
	"github.com/ManuelReschke/SubFox/internal/pkg/constants"
	"github.com/ManuelReschke/SubFox/internal/pkg/middleware"
	"github.com/ManuelReschke/SubFox/internal/pkg/oauth"
)

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	cfg := h.deps.Config

	pages := controllers.NewPageController(h.deps.Billing)
	auth := controllers.NewAuthController(h.deps.Sessions, oauth.Providers(cfg))
	oauthCtl := controllers.NewOAuthController(h.deps.Sessions, h.deps.Repos)
	billingCtl := controllers.NewBillingController(h.deps.Billing, cfg.WebhookSecret(), cfg.PublicDomain)

	app.Get(constants.HealthRoute, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get(constants.MetricsRoute,
		middleware.MetricsAuth(cfg.MetricsUser, cfg.MetricsPassword),
		adaptor.HTTPHandler(promhttp.HandlerFor(h.deps.Gatherer, promhttp.HandlerOpts{})),
	)

	// Pages
	app.Get(constants.PricingRoute, pages.HandlePricing)
	app.Get(constants.AccountRoute, middleware.RequireAuth, pages.HandleAccount)

	// Auth
	app.Get(constants.LoginRoute, auth.HandleLogin)
	app.Get(constants.LogoutRoute, middleware.RequireAuth, auth.HandleLogout)

	// Social OAuth
	app.Get(constants.OAuthBeginRoute, oauthCtl.HandleOAuthBegin)
	app.Get(constants.OAuthCallbackRoute, oauthCtl.HandleOAuthCallback)

	// Billing provider webhooks (no CSRF, signature-verified in controller)
	app.Post(constants.WebhookRoute, billingCtl.HandleWebhook)
}
