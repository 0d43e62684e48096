package oauth

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/middleware/session"
	redisstorage "github.com/gofiber/storage/redis"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/github"
	"github.com/markbates/goth/providers/google"
	gothfiber "github.com/shareed2k/goth_fiber"

	"github.com/ManuelReschke/SubFox/internal/pkg/env"
)

// Provider describes a configured login provider for the login page.
type Provider struct {
	Name  string
	Label string
}

// Providers returns the login providers that have credentials configured.
func Providers(cfg env.Config) []Provider {
	var out []Provider
	if cfg.GithubKey != "" && cfg.GithubSecret != "" {
		out = append(out, Provider{Name: "github", Label: "GitHub"})
	}
	if cfg.GoogleKey != "" && cfg.GoogleSecret != "" {
		out = append(out, Provider{Name: "google", Label: "Google"})
	}
	return out
}

// Setup registers the configured Goth providers and the OAuth state store.
// It is safe to call multiple times; providers will just be re-registered.
func Setup(cfg env.Config) {
	base := strings.TrimRight(cfg.PublicDomain, "/")

	var providers []goth.Provider
	if cfg.GithubKey != "" && cfg.GithubSecret != "" {
		providers = append(providers, github.New(
			cfg.GithubKey,
			cfg.GithubSecret,
			base+"/auth/github/callback",
			"user:email",
		))
	}
	if cfg.GoogleKey != "" && cfg.GoogleSecret != "" {
		providers = append(providers, google.New(
			cfg.GoogleKey,
			cfg.GoogleSecret,
			base+"/auth/google/callback",
			"email", "profile",
		))
	}
	goth.UseProviders(providers...)

	port, err := strconv.Atoi(cfg.Cache.Port)
	if err != nil {
		port = 6379
	}

	// OAuth state via Redis, separate DB from app sessions
	gothfiber.SessionStore = session.New(session.Config{
		Storage: redisstorage.New(redisstorage.Config{
			Host:     cfg.Cache.Host,
			Port:     port,
			Password: cfg.Cache.Password,
			Database: 2,
			Reset:    false,
		}),
		KeyLookup:      "cookie:" + gothic.SessionName,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		CookieSecure:   !cfg.IsDev(),
		Expiration:     time.Hour,
	})
}
