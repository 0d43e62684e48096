package viewmodel

import "github.com/gofiber/fiber/v2"

// Layout carries the fields the shared page layout reads.
type Layout struct {
	Page       string
	Title      string
	IsLoggedIn bool
	Username   string
	Flash      fiber.Map
	CSRFToken  string
}

// FlashText returns the flash message, if any.
func (l Layout) FlashText() string {
	msg, _ := l.Flash["message"].(string)
	return msg
}

// FlashType returns the flash message type, defaulting to info.
func (l Layout) FlashType() string {
	kind, _ := l.Flash["type"].(string)
	if kind == "" {
		return "info"
	}
	return kind
}
