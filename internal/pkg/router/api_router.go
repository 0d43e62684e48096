package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/ManuelReschke/SubFox/app/controllers"
	"github.com/ManuelReschke/SubFox/internal/pkg/constants"
	"github.com/ManuelReschke/SubFox/internal/pkg/middleware"
)

type ApiRouter struct {
	deps Deps
}

func NewApiRouter(deps Deps) *ApiRouter {
	return &ApiRouter{deps: deps}
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	bc := controllers.NewBillingController(h.deps.Billing, h.deps.Config.WebhookSecret(), h.deps.Config.PublicDomain)

	api := app.Group(constants.APIPrefix, limiter.New(limiter.Config{
		Max:        60,
		Expiration: 1 * time.Minute,
	}))
	api.Get(constants.ProductsRoute, bc.HandleListProducts)
	api.Get(constants.SubscriptionRoute, middleware.RequireAPISessionAuth, bc.HandleGetSubscription)
	api.Post(constants.CheckoutRoute, middleware.RequireAPISessionAuth, bc.HandleCreateCheckoutSession)
	api.Post(constants.PortalRoute, middleware.RequireAPISessionAuth, bc.HandleCreatePortalLink)
}
