package usercontext

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrAuthRequired is returned by Authenticate for anonymous requests.
var ErrAuthRequired = errors.New("authentication required")

// UserContext represents the complete user context for a request
type UserContext struct {
	UserID     uint   `json:"user_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	IsLoggedIn bool   `json:"is_logged_in"`
}

// GetUserContext retrieves the user context from fiber context
// Returns a default anonymous context if none is set
func GetUserContext(c *fiber.Ctx) UserContext {
	if uc, ok := c.Locals(LocalsKey).(UserContext); ok {
		return uc
	}
	return UserContext{IsLoggedIn: false}
}

// SetUserContext stores the user context for the rest of the request.
func SetUserContext(c *fiber.Ctx, uc UserContext) {
	c.Locals(LocalsKey, uc)
}

// Authenticate is the single authorization gate. It returns the signed-in
// user or ErrAuthRequired.
func Authenticate(c *fiber.Ctx) (UserContext, error) {
	uc := GetUserContext(c)
	if !uc.IsLoggedIn || uc.UserID == 0 {
		return UserContext{}, ErrAuthRequired
	}
	return uc, nil
}

// IsLoggedIn checks if the current user is logged in
func IsLoggedIn(c *fiber.Ctx) bool {
	_, err := Authenticate(c)
	return err == nil
}

// GetUserID returns the current user's ID, or 0 if not logged in
func GetUserID(c *fiber.Ctx) uint {
	return GetUserContext(c).UserID
}
