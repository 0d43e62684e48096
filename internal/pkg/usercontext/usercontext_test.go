package usercontext

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	app := fiber.New()
	app.Get("/anon", func(c *fiber.Ctx) error {
		_, err := Authenticate(c)
		assert.ErrorIs(t, err, ErrAuthRequired)
		assert.False(t, IsLoggedIn(c))
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/user", func(c *fiber.Ctx) error {
		SetUserContext(c, UserContext{UserID: 3, Email: "ada@example.com", IsLoggedIn: true})
		uc, err := Authenticate(c)
		require.NoError(t, err)
		assert.Equal(t, uint(3), uc.UserID)
		assert.Equal(t, uint(3), GetUserID(c))
		return c.SendStatus(fiber.StatusNoContent)
	})

	for _, path := range []string{"/anon", "/user"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	}
}
