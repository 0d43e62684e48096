package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/ManuelReschke/SubFox/internal/pkg/constants"
	appsession "github.com/ManuelReschke/SubFox/internal/pkg/session"
	"github.com/ManuelReschke/SubFox/internal/pkg/usercontext"
)

// UserContextMiddleware resolves the session user once per request.
func UserContextMiddleware(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Goth keeps its own session store on /auth/*; don't touch ours there.
		if strings.HasPrefix(c.Path(), constants.OAuthPrefix) {
			return c.Next()
		}
		usercontext.SetUserContext(c, appsession.Load(store, c))
		return c.Next()
	}
}
