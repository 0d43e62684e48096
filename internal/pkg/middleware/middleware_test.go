package middleware

import (
	"encoding/base64"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/SubFox/internal/pkg/usercontext"
)

func newApp(loggedIn bool) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if loggedIn {
			usercontext.SetUserContext(c, usercontext.UserContext{UserID: 1, IsLoggedIn: true})
		}
		return c.Next()
	})
	ok := func(c *fiber.Ctx) error { return c.SendString("ok") }
	app.Get("/page", RequireAuth, ok)
	app.Get("/api", RequireAPISessionAuth, ok)
	return app
}

func TestRequireAuthRedirectsAnonymous(t *testing.T) {
	resp, err := newApp(false).Test(httptest.NewRequest("GET", "/page", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestRequireAPISessionAuth(t *testing.T) {
	resp, err := newApp(false).Test(httptest.NewRequest("GET", "/api", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, err = newApp(true).Test(httptest.NewRequest("GET", "/api", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestUserContextMiddlewareAnonymous(t *testing.T) {
	app := fiber.New()
	app.Use(UserContextMiddleware(session.New()))
	app.Get("/", func(c *fiber.Ctx) error {
		assert.False(t, usercontext.IsLoggedIn(c))
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestMetricsAuth(t *testing.T) {
	app := fiber.New()
	app.Get("/metrics", MetricsAuth("ops", "secret"), func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/hidden", MetricsAuth("", ""), func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest("GET", "/metrics", nil)
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("ops:secret")))
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/hidden", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
