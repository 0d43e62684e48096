package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/ManuelReschke/SubFox/internal/pkg/usercontext"
	"github.com/ManuelReschke/SubFox/internal/pkg/viewmodel"
)

// CSRFContextKey is where the csrf middleware stores the request token.
const CSRFContextKey = "csrf"

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error":   "unauthorized",
		"message": "you must be logged in.",
	})
}

// layoutFor collects what every page needs from the request.
func layoutFor(c *fiber.Ctx, page, title string) viewmodel.Layout {
	uc := usercontext.GetUserContext(c)
	token, _ := c.Locals(CSRFContextKey).(string)
	return viewmodel.Layout{
		Page:       page,
		Title:      title,
		IsLoggedIn: uc.IsLoggedIn,
		Username:   uc.Name,
		Flash:      flash.Get(c),
		CSRFToken:  token,
	}
}
