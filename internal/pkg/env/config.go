package env

import (
	"fmt"

	cenv "github.com/caarlos0/env/v11"
)

// Config is built once in main and handed to every constructor that needs it.
type Config struct {
	AppHost      string `env:"APP_HOST" envDefault:"0.0.0.0"`
	AppPort      string `env:"APP_PORT" envDefault:"4000"`
	AppEnv       string `env:"APP_ENV" envDefault:"prod"`
	PublicDomain string `env:"PUBLIC_DOMAIN" envDefault:"http://localhost:4000"`

	DB    DBConfig
	Cache CacheConfig

	StripeSecretKeyLive     string `env:"STRIPE_SECRET_KEY_LIVE"`
	StripeSecretKey         string `env:"STRIPE_SECRET_KEY"`
	StripeWebhookSecretLive string `env:"STRIPE_WEBHOOK_SECRET_LIVE"`
	StripeWebhookSecret     string `env:"STRIPE_WEBHOOK_SECRET"`

	GithubKey    string `env:"GITHUB_KEY"`
	GithubSecret string `env:"GITHUB_SECRET"`
	GoogleKey    string `env:"GOOGLE_KEY"`
	GoogleSecret string `env:"GOOGLE_SECRET"`

	MetricsUser     string `env:"METRICS_USER"`
	MetricsPassword string `env:"METRICS_PASSWORD"`

	Archive ArchiveConfig
}

type DBConfig struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"3306"`
	User     string `env:"DB_USER" envDefault:"subfox"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME" envDefault:"subfox"`
}

type CacheConfig struct {
	Host     string `env:"CACHE_HOST" envDefault:"localhost"`
	Port     string `env:"CACHE_PORT" envDefault:"6379"`
	Password string `env:"CACHE_PASSWORD"`
}

type ArchiveConfig struct {
	Enabled         bool   `env:"EVENT_ARCHIVE_ENABLED" envDefault:"false"`
	Bucket          string `env:"S3_BUCKET_NAME"`
	Region          string `env:"S3_REGION" envDefault:"eu-central-1"`
	AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	EndpointURL     string `env:"S3_ENDPOINT_URL"`
}

// LoadConfig parses the process environment merged with the .env map.
func LoadConfig() (Config, error) {
	return ParseConfig(environ())
}

// ParseConfig builds a Config from an explicit variable map.
func ParseConfig(vars map[string]string) (Config, error) {
	var cfg Config
	if err := cenv.ParseWithOptions(&cfg, cenv.Options{Environment: vars}); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (c Config) IsDev() bool {
	return c.AppEnv == "dev"
}

func (c Config) ListenAddr() string {
	return c.AppHost + ":" + c.AppPort
}

// StripeAPIKey prefers the live key and falls back to the test key.
func (c Config) StripeAPIKey() string {
	if c.StripeSecretKeyLive != "" {
		return c.StripeSecretKeyLive
	}
	return c.StripeSecretKey
}

// WebhookSecret prefers the live signing secret and falls back to the test one.
func (c Config) WebhookSecret() string {
	if c.StripeWebhookSecretLive != "" {
		return c.StripeWebhookSecretLive
	}
	return c.StripeWebhookSecret
}

// DSN returns the MySQL DSN used by GORM and the migration runner.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local&multiStatements=true",
		c.User, c.Password, c.Host, c.Port, c.Name)
}

func (c CacheConfig) Addr() string {
	return c.Host + ":" + c.Port
}
