package session

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/redis"

	"github.com/ManuelReschke/SubFox/app/models"
	"github.com/ManuelReschke/SubFox/internal/pkg/env"
	"github.com/ManuelReschke/SubFox/internal/pkg/usercontext"
)

// NewSessionStore creates the app session store in Redis database 1 (the
// cache uses 0, OAuth state uses 2).
func NewSessionStore(cfg env.CacheConfig, secure bool) *session.Store {
	port, err := strconv.Atoi(cfg.Port)
	if err != nil {
		port = 6379
	}

	storage := redis.New(redis.Config{
		Host:     cfg.Host,
		Port:     port,
		Password: cfg.Password,
		Database: 1,
		Reset:    false,
	})

	return session.New(session.Config{
		Storage:        storage,
		CookieHTTPOnly: true,
		CookieSecure:   secure,
		CookieSameSite: "Lax",
		Expiration:     24 * time.Hour,
		KeyLookup:      "cookie:session_id",
	})
}

// Login stores the user identity in the session.
func Login(store *session.Store, c *fiber.Ctx, user *models.User) error {
	sess, err := store.Get(c)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if err := sess.Regenerate(); err != nil {
		return fmt.Errorf("failed to regenerate session: %w", err)
	}
	sess.Set(usercontext.KeyUserID, user.ID)
	sess.Set(usercontext.KeyUserName, user.Name)
	sess.Set(usercontext.KeyUserEmail, user.Email)
	return sess.Save()
}

// Logout destroys the session.
func Logout(store *session.Store, c *fiber.Ctx) error {
	sess, err := store.Get(c)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	return sess.Destroy()
}

// Load reads the user identity from the session. Anonymous sessions yield a
// context with IsLoggedIn false.
func Load(store *session.Store, c *fiber.Ctx) usercontext.UserContext {
	sess, err := store.Get(c)
	if err != nil {
		return usercontext.UserContext{}
	}
	id, ok := sess.Get(usercontext.KeyUserID).(uint)
	if !ok || id == 0 {
		return usercontext.UserContext{}
	}
	name, _ := sess.Get(usercontext.KeyUserName).(string)
	email, _ := sess.Get(usercontext.KeyUserEmail).(string)
	return usercontext.UserContext{
		UserID:     id,
		Name:       name,
		Email:      email,
		IsLoggedIn: true,
	}
}
