package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
)

// MetricsAuth protects the metrics endpoint with basic auth. Without
// configured credentials the endpoint is hidden.
func MetricsAuth(user, password string) fiber.Handler {
	if user == "" || password == "" {
		return func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusNotFound)
		}
	}
	return basicauth.New(basicauth.Config{
		Users: map[string]string{user: password},
		Realm: "metrics",
	})
}
