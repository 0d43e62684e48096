package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/markbates/goth"
	gothfiber "github.com/shareed2k/goth_fiber"
	"github.com/sujit-baniya/flash"

	"github.com/ManuelReschke/SubFox/app/repository"
	"github.com/ManuelReschke/SubFox/internal/pkg/constants"
	appsession "github.com/ManuelReschke/SubFox/internal/pkg/session"
)

// CompleteAuthFunc finishes the provider flow. gothfiber.CompleteUserAuth in production.
type CompleteAuthFunc func(c *fiber.Ctx) (goth.User, error)

type OAuthController struct {
	store    *session.Store
	accounts repository.ProviderAccountRepository
	users    repository.UserRepository
	complete CompleteAuthFunc
	now      func() time.Time
}

func NewOAuthController(store *session.Store, repos *repository.Repositories) *OAuthController {
	return &OAuthController{
		store:    store,
		accounts: repos.ProviderAccount,
		users:    repos.User,
		complete: func(c *fiber.Ctx) (goth.User, error) {
			return gothfiber.CompleteUserAuth(c)
		},
		now:      time.Now,
	}
}

// HandleOAuthBegin redirects to the provider named in the route.
func (oc *OAuthController) HandleOAuthBegin(c *fiber.Ctx) error {
	return gothfiber.BeginAuthHandler(c)
}

// HandleOAuthCallback completes the provider flow and logs the user in.
func (oc *OAuthController) HandleOAuthCallback(c *fiber.Ctx) error {
	u, err := oc.complete(c)
	if err != nil {
		log.Warnf("[Auth] OAuth callback failed: %v", err)
		return loginError(c, "Sign in with the provider failed.")
	}

	var exp *time.Time
	if !u.ExpiresAt.IsZero() {
		t := u.ExpiresAt
		exp = &t
	}

	ctx := c.UserContext()
	user, err := oc.accounts.LinkIdentity(ctx, repository.ExternalIdentity{
		Provider:       u.Provider,
		ProviderUserID: u.UserID,
		Email:          u.Email,
		Name:           firstNonEmpty(u.Name, u.NickName, u.Email, "User"),
		AvatarURL:      u.AvatarURL,
		AccessToken:    u.AccessToken,
		RefreshToken:   u.RefreshToken,
		ExpiresAt:      exp,
	})
	if err != nil {
		log.Errorf("[Auth] Link %s identity %s failed: %v", u.Provider, u.UserID, err)
		return loginError(c, "Your account could not be loaded.")
	}

	if !user.IsActive() {
		return loginError(c, "Your account is disabled.")
	}

	if err := oc.users.TouchLastLogin(ctx, user.ID, oc.now()); err != nil {
		log.Warnf("[Auth] Update last login for user %d failed: %v", user.ID, err)
	}

	if err := appsession.Login(oc.store, c, user); err != nil {
		log.Errorf("[Auth] Session for user %d failed: %v", user.ID, err)
		return loginError(c, "Your session could not be created.")
	}

	log.Infof("[Auth] User %d signed in with %s", user.ID, u.Provider)
	return c.Redirect(constants.PricingRoute, fiber.StatusSeeOther)
}

func loginError(c *fiber.Ctx, msg string) error {
	fm := fiber.Map{
		"type":    "error",
		"message": msg,
	}
	return flash.WithError(c, fm).Redirect(constants.LoginRoute, fiber.StatusSeeOther)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
