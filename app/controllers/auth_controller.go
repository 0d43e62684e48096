package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/sujit-baniya/flash"

	"github.com/ManuelReschke/SubFox/internal/pkg/constants"
	"github.com/ManuelReschke/SubFox/internal/pkg/oauth"
	appsession "github.com/ManuelReschke/SubFox/internal/pkg/session"
	"github.com/ManuelReschke/SubFox/internal/pkg/usercontext"
	"github.com/ManuelReschke/SubFox/internal/pkg/viewmodel"
)

type AuthController struct {
	store     *session.Store
	providers []oauth.Provider
}

func NewAuthController(store *session.Store, providers []oauth.Provider) *AuthController {
	return &AuthController{store: store, providers: providers}
}

// HandleLogin shows one sign-in button per configured provider.
func (ac *AuthController) HandleLogin(c *fiber.Ctx) error {
	if usercontext.IsLoggedIn(c) {
		return c.Redirect(constants.AccountRoute, fiber.StatusSeeOther)
	}

	page := viewmodel.LoginPage{Layout: layoutFor(c, "login", "Sign in")}
	for _, p := range ac.providers {
		page.Providers = append(page.Providers, viewmodel.LoginOption{Name: p.Name, Label: p.Label})
	}
	return c.Render("login", page, "layouts/main")
}

func (ac *AuthController) HandleLogout(c *fiber.Ctx) error {
	if err := appsession.Logout(ac.store, c); err != nil {
		log.Warnf("[Auth] Logout failed: %v", err)
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "You have been signed out.",
	}
	return flash.WithSuccess(c, fm).Redirect(constants.PricingRoute, fiber.StatusSeeOther)
}
