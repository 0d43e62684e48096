package router

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"

	"github.com/ManuelReschke/SubFox/app/controllers"
	"github.com/ManuelReschke/SubFox/internal/pkg/constants"
	"github.com/ManuelReschke/SubFox/internal/pkg/middleware"
	"github.com/ManuelReschke/SubFox/internal/pkg/usercontext"
)

type HttpRouter struct {
	deps Deps
}

func NewHttpRouter(deps Deps) *HttpRouter {
	return &HttpRouter{deps: deps}
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware(h.deps.Sessions))

	// Provider webhooks carry their own signature. Anonymous API calls are
	// left to the session gate so they answer 401.
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "header:X-CSRF-Token",
		ContextKey:     controllers.CSRFContextKey,
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		Expiration:     1 * time.Hour,
		CookieSecure:   !h.deps.Config.IsDev(),
		Next: func(c *fiber.Ctx) bool {
			path := c.Path()
			if path == constants.WebhookRoute || strings.HasPrefix(path, constants.OAuthPrefix) {
				return true
			}
			return strings.HasPrefix(path, constants.APIPrefix) && !usercontext.IsLoggedIn(c)
		},
	}))

	h.registerPublicRoutes(app)
}
