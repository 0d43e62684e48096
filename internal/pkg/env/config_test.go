package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:4000", cfg.ListenAddr())
	assert.Equal(t, "3306", cfg.DB.Port)
	assert.Equal(t, "localhost:6379", cfg.Cache.Addr())
	assert.False(t, cfg.Archive.Enabled)
	assert.False(t, cfg.IsDev())
}

func TestStripeKeysPreferLive(t *testing.T) {
	cfg, err := ParseConfig(map[string]string{
		"STRIPE_SECRET_KEY":          "sk_test",
		"STRIPE_SECRET_KEY_LIVE":     "sk_live",
		"STRIPE_WEBHOOK_SECRET":      "whsec_test",
		"STRIPE_WEBHOOK_SECRET_LIVE": "whsec_live",
	})
	require.NoError(t, err)
	assert.Equal(t, "sk_live", cfg.StripeAPIKey())
	assert.Equal(t, "whsec_live", cfg.WebhookSecret())
}

func TestStripeKeysFallBack(t *testing.T) {
	cfg, err := ParseConfig(map[string]string{
		"STRIPE_SECRET_KEY":     "sk_test",
		"STRIPE_WEBHOOK_SECRET": "whsec_test",
	})
	require.NoError(t, err)
	assert.Equal(t, "sk_test", cfg.StripeAPIKey())
	assert.Equal(t, "whsec_test", cfg.WebhookSecret())
}

func TestParseConfigRejectsBadBool(t *testing.T) {
	_, err := ParseConfig(map[string]string{"EVENT_ARCHIVE_ENABLED": "maybe"})
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	c := DBConfig{Host: "db", Port: "3306", User: "u", Password: "p", Name: "n"}
	assert.Equal(t, "u:p@tcp(db:3306)/n?charset=utf8mb4&parseTime=True&loc=Local&multiStatements=true", c.DSN())
}
