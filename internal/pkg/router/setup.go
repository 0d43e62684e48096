package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ManuelReschke/SubFox/app/controllers"
	"github.com/ManuelReschke/SubFox/app/repository"
	"github.com/ManuelReschke/SubFox/internal/pkg/billing"
	"github.com/ManuelReschke/SubFox/internal/pkg/env"
)

type Router interface {
	InstallRouter(app *fiber.App)
}

// Deps are the wired services the routes hand to controllers.
type Deps struct {
	Config   env.Config
	Billing  *billing.Service
	Repos    *repository.Repositories
	Sessions *session.Store
	Gatherer prometheus.Gatherer
}

func InstallRouter(app *fiber.App, deps Deps) {
	// HttpRouter installs the UserContext middleware the API routes rely on,
	// so it goes first.
	setup(app, NewHttpRouter(deps), NewApiRouter(deps))

	app.Use(controllers.NewPageController(deps.Billing).HandleNotFound)
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
